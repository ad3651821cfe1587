package model

import "time"

// Review is a user's write-up of a movie.  UserID and MovieID are fixed at
// creation; only Title and Content change afterwards.
type Review struct {
	ID        uint64    // reviews.id
	Title     string    // reviews.title
	Content   string    // reviews.content
	UserID    uint64    // reviews.user_id
	MovieID   uint64    // reviews.movie_id
	CreatedAt time.Time // reviews.created_at
	UpdatedAt time.Time // reviews.updated_at
}

// ReviewView is a read-side projection joining a review with its movie
// and author.  It is never persisted.
type ReviewView struct {
	Review
	MovieExternalID string
	MovieTitle      string
	MovieImage      string
	UserName        string
	UserEmail       string
}

// AuthorName returns the reviewer's name, or the email if the name is empty.
func (v ReviewView) AuthorName() string {
	return User{Name: v.UserName, Email: v.UserEmail}.DisplayName()
}
