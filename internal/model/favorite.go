package model

import "time"

// Favorite is a row of the `favorites` join table.  The (UserID, MovieID)
// pair is the primary key, so a movie is favorited at most once per user.
type Favorite struct {
	UserID    uint64
	MovieID   uint64
	CreatedAt time.Time
}
