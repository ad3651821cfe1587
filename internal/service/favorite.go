package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/cinereview/internal/model"
	"github.com/iliyamo/cinereview/internal/queue"
	"github.com/iliyamo/cinereview/internal/repository"
)

// FavoriteResult is returned after a successful add.
type FavoriteResult struct {
	Movie     *model.Movie
	UserID    uint64
	Favorites []*model.Movie
}

// FavoriteService maintains the user<->movie favorites relation.
type FavoriteService struct {
	favorites FavoriteStore
	movies    *MovieIngestion
	events    EventPublisher
}

func NewFavoriteService(favorites FavoriteStore, movies *MovieIngestion, events EventPublisher) *FavoriteService {
	if favorites == nil || movies == nil {
		panic("nil dependency passed to NewFavoriteService")
	}
	if events == nil {
		events = NopPublisher{}
	}
	return &FavoriteService{favorites: favorites, movies: movies, events: events}
}

// Add ingests the movie if needed and favorites it.  The store's unique
// pair rejects a second add, including one racing with the first.
func (s *FavoriteService) Add(ctx context.Context, userID uint64, externalMovieID string) (*FavoriteResult, error) {
	movie, err := s.movies.EnsureMovie(ctx, externalMovieID)
	if err != nil {
		return nil, err
	}
	if err := s.favorites.Add(ctx, userID, movie.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}
	all, err := s.favorites.ListMovies(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.FavoriteAdded, userID, movie)
	return &FavoriteResult{Movie: movie, UserID: userID, Favorites: all}, nil
}

// Remove un-favorites a movie and returns it.  It never ingests.
func (s *FavoriteService) Remove(ctx context.Context, userID uint64, externalMovieID string) (*model.Movie, error) {
	movie, err := s.favorites.FindByExternalID(ctx, userID, strings.TrimSpace(externalMovieID))
	if err != nil {
		return nil, mapFavoriteErr(err)
	}
	if err := s.favorites.Remove(ctx, userID, movie.ID); err != nil {
		return nil, mapFavoriteErr(err)
	}
	s.publish(ctx, queue.FavoriteRemoved, userID, movie)
	return movie, nil
}

// List returns the user's favorite movies.
func (s *FavoriteService) List(ctx context.Context, userID uint64) ([]*model.Movie, error) {
	return s.favorites.ListMovies(ctx, userID)
}

func (s *FavoriteService) publish(ctx context.Context, typ string, userID uint64, m *model.Movie) {
	_ = s.events.Publish(ctx, queue.ActivityEvent{
		Type:            typ,
		UserID:          userID,
		MovieID:         m.ID,
		MovieExternalID: m.ExternalID,
		MovieTitle:      m.Title,
		OccurredAt:      time.Now().UTC().Format(time.RFC3339),
	})
}

func mapFavoriteErr(err error) error {
	if errors.Is(err, repository.ErrFavoriteNotFound) {
		return ErrNotFavorited
	}
	return err
}
