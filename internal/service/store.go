package service

import (
	"context"

	"github.com/iliyamo/cinereview/internal/model"
	"github.com/iliyamo/cinereview/internal/queue"
)

// The store interfaces below are satisfied by the MySQL repositories in
// internal/repository and by the in-memory store in internal/repository/memory.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetBySubject(ctx context.Context, subject string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	UpdateName(ctx context.Context, id uint64, name string) error
}

type MovieStore interface {
	Create(ctx context.Context, m *model.Movie) error
	GetByExternalID(ctx context.Context, externalID string) (*model.Movie, error)
}

type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) error
	Update(ctx context.Context, id, userID uint64, title, content string) (*model.Review, error)
	Delete(ctx context.Context, id, userID uint64) error
	GetView(ctx context.Context, id uint64) (*model.ReviewView, error)
	ListRecent(ctx context.Context, limit int) ([]*model.ReviewView, error)
	ListByMovie(ctx context.Context, movieID uint64) ([]*model.ReviewView, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.ReviewView, error)
}

type FavoriteStore interface {
	Add(ctx context.Context, userID, movieID uint64) error
	Remove(ctx context.Context, userID, movieID uint64) error
	FindByExternalID(ctx context.Context, userID uint64, externalID string) (*model.Movie, error)
	ListMovies(ctx context.Context, userID uint64) ([]*model.Movie, error)
}

// MovieProvider is the external metadata gateway.
type MovieProvider interface {
	Lookup(ctx context.Context, query string) (model.MovieDescriptor, error)
	Search(ctx context.Context, query string) ([]model.MovieDescriptor, error)
}

// EventPublisher receives activity events after successful writes.
// Implementations log their own failures; services ignore the returned error.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ActivityEvent) error { return nil }
