package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/cinereview/internal/logger"
	"github.com/iliyamo/cinereview/internal/model"
	"github.com/iliyamo/cinereview/internal/queue"
	"github.com/iliyamo/cinereview/internal/repository"
)

const (
	DefaultRecentLimit = 4
	MaxRecentLimit     = 100
)

// ReviewService owns the review lifecycle.  Only a review's author may
// change or delete it.
type ReviewService struct {
	reviews ReviewStore
	movies  *MovieIngestion
	events  EventPublisher
}

func NewReviewService(reviews ReviewStore, movies *MovieIngestion, events EventPublisher) *ReviewService {
	if reviews == nil || movies == nil {
		panic("nil dependency passed to NewReviewService")
	}
	if events == nil {
		events = NopPublisher{}
	}
	return &ReviewService{reviews: reviews, movies: movies, events: events}
}

type reviewInput struct {
	Title   string `validate:"required,max=255"`
	Content string `validate:"required,max=20000"`
}

func newReviewInput(title, content string) (reviewInput, error) {
	in := reviewInput{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)}
	return in, check(in)
}

// Create validates the input, ingests the movie if needed and stores a
// review owned by userID.  Invalid input touches neither the provider nor
// the store.
func (s *ReviewService) Create(ctx context.Context, userID uint64, externalMovieID, title, content string) (*model.Review, error) {
	in, err := newReviewInput(title, content)
	if err != nil {
		return nil, err
	}
	movie, err := s.movies.EnsureMovie(ctx, externalMovieID)
	if err != nil {
		return nil, err
	}
	rv := &model.Review{Title: in.Title, Content: in.Content, UserID: userID, MovieID: movie.ID}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	s.publish(ctx, queue.ReviewCreated, rv, movie.ExternalID, movie.Title)
	return rv, nil
}

// Update rewrites title and content of one of the caller's reviews.
func (s *ReviewService) Update(ctx context.Context, userID, reviewID uint64, title, content string) (*model.Review, error) {
	in, err := newReviewInput(title, content)
	if err != nil {
		return nil, err
	}
	current, err := s.owned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}
	rv, err := s.reviews.Update(ctx, reviewID, userID, in.Title, in.Content)
	if err != nil {
		return nil, mapReviewErr(err)
	}
	s.publish(ctx, queue.ReviewUpdated, rv, current.MovieExternalID, current.MovieTitle)
	return rv, nil
}

// Delete removes one of the caller's reviews and returns it as it was.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uint64) (*model.Review, error) {
	current, err := s.owned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Delete(ctx, reviewID, userID); err != nil {
		return nil, mapReviewErr(err)
	}
	rv := current.Review
	s.publish(ctx, queue.ReviewDeleted, &rv, current.MovieExternalID, current.MovieTitle)
	return &rv, nil
}

// owned loads a review and checks that userID wrote it.
func (s *ReviewService) owned(ctx context.Context, userID, reviewID uint64) (*model.ReviewView, error) {
	v, err := s.reviews.GetView(ctx, reviewID)
	if err != nil {
		return nil, mapReviewErr(err)
	}
	if v.UserID != userID {
		logger.Warn(ctx).Uint64("review_id", reviewID).Uint64("owner_id", v.UserID).Uint64("caller_id", userID).Msg("review mutation by non-owner rejected")
		return nil, ErrForbidden
	}
	return v, nil
}

// Get returns the public, denormalized view of a review.
func (s *ReviewService) Get(ctx context.Context, reviewID uint64) (*model.ReviewView, error) {
	v, err := s.reviews.GetView(ctx, reviewID)
	if err != nil {
		return nil, mapReviewErr(err)
	}
	return v, nil
}

// ListRecent returns the newest reviews.  Non-positive limits use the
// default; large ones are capped.
func (s *ReviewService) ListRecent(ctx context.Context, limit int) ([]*model.ReviewView, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return s.reviews.ListRecent(ctx, limit)
}

// ListForMovie returns a movie's reviews.  Unknown movies yield an empty
// list and are not ingested.
func (s *ReviewService) ListForMovie(ctx context.Context, externalMovieID string) ([]*model.ReviewView, error) {
	movie, ok, err := s.movies.FindMovie(ctx, externalMovieID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*model.ReviewView{}, nil
	}
	return s.reviews.ListByMovie(ctx, movie.ID)
}

// ListForUser returns the reviews written by userID.
func (s *ReviewService) ListForUser(ctx context.Context, userID uint64) ([]*model.ReviewView, error) {
	return s.reviews.ListByUser(ctx, userID)
}

func (s *ReviewService) publish(ctx context.Context, typ string, rv *model.Review, externalID, movieTitle string) {
	_ = s.events.Publish(ctx, queue.ActivityEvent{
		Type:            typ,
		UserID:          rv.UserID,
		ReviewID:        rv.ID,
		MovieID:         rv.MovieID,
		MovieExternalID: externalID,
		MovieTitle:      movieTitle,
		ReviewTitle:     rv.Title,
		OccurredAt:      time.Now().UTC().Format(time.RFC3339),
	})
}

func mapReviewErr(err error) error {
	if errors.Is(err, repository.ErrReviewNotFound) {
		return ErrReviewNotFound
	}
	return err
}
