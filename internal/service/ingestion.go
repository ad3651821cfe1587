package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/cinereview/internal/gateway"
	"github.com/iliyamo/cinereview/internal/logger"
	"github.com/iliyamo/cinereview/internal/metrics"
	"github.com/iliyamo/cinereview/internal/model"
	"github.com/iliyamo/cinereview/internal/repository"
)

// MovieIngestion resolves external movie ids to local Movie rows, creating
// them from provider data on first reference.
type MovieIngestion struct {
	movies   MovieStore
	provider MovieProvider
}

func NewMovieIngestion(movies MovieStore, provider MovieProvider) *MovieIngestion {
	if movies == nil || provider == nil {
		panic("nil dependency passed to NewMovieIngestion")
	}
	return &MovieIngestion{movies: movies, provider: provider}
}

// EnsureMovie returns the local movie for externalID, ingesting it when
// absent.  Two requests may both miss and both call the provider; the
// unique index lets exactly one insert win and the loser re-reads the
// winner's row.
func (s *MovieIngestion) EnsureMovie(ctx context.Context, externalID string) (*model.Movie, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, &ValidationError{Message: "movie id is required"}
	}

	m, err := s.movies.GetByExternalID(ctx, externalID)
	if err == nil {
		metrics.MovieIngestions.WithLabelValues("existing").Inc()
		return m, nil
	}
	if !errors.Is(err, repository.ErrMovieNotFound) {
		return nil, err
	}

	desc, err := s.provider.Lookup(ctx, externalID)
	if err != nil {
		metrics.MovieIngestions.WithLabelValues("failed").Inc()
		logger.Warn(ctx).Err(err).Str("external_id", externalID).Msg("movie ingestion failed")
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	m = &model.Movie{
		ExternalID: externalID,
		Title:      desc.Title,
		Year:       desc.Year,
		Cast:       desc.Cast,
		Kind:       desc.Kind,
		Image:      desc.Image,
	}
	switch err := s.movies.Create(ctx, m); {
	case err == nil:
		metrics.MovieIngestions.WithLabelValues("created").Inc()
		logger.Info(ctx).Str("external_id", externalID).Uint64("movie_id", m.ID).Msg("movie ingested")
		return m, nil
	case errors.Is(err, repository.ErrDuplicate):
		metrics.MovieIngestions.WithLabelValues("raced").Inc()
		return s.movies.GetByExternalID(ctx, externalID)
	default:
		return nil, err
	}
}

// FindMovie returns the local movie without ever calling the provider.
// The boolean is false when the movie was never ingested.
func (s *MovieIngestion) FindMovie(ctx context.Context, externalID string) (*model.Movie, bool, error) {
	m, err := s.movies.GetByExternalID(ctx, strings.TrimSpace(externalID))
	if errors.Is(err, repository.ErrMovieNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// Search proxies a free-text query to the provider.  Zero matches is an
// empty result, not an error.
func (s *MovieIngestion) Search(ctx context.Context, query string) ([]model.MovieDescriptor, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &ValidationError{Message: "query is required"}
	}
	out, err := s.provider.Search(ctx, query)
	if err != nil {
		if isNoMatch(err) {
			return []model.MovieDescriptor{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return out, nil
}

func isNoMatch(err error) bool {
	return errors.Is(err, gateway.ErrNoMatch)
}
