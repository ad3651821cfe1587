// Package repository contains data access logic separated from HTTP handlers.
// This file holds the Movie repository.  Movie rows are keyed by the metadata
// provider's id; the unique index on movies.external_id is what makes
// ingestion safe when several API instances see the same new title at once.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/cinereview/internal/model"
)

// MovieRepo encapsulates all database queries related to movies.
type MovieRepo struct {
	db *sql.DB
}

func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

const movieColumns = "id, external_id, title, year, cast_list, kind, image, created_at"

// Create inserts a new movie and populates ID and CreatedAt.  When the
// external id already exists ErrDuplicate is returned and m is untouched.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	cast, err := json.Marshal(nonNil(m.Cast))
	if err != nil {
		return err
	}
	const qInsert = "INSERT INTO movies (external_id, title, year, cast_list, kind, image) VALUES (?, ?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, m.ExternalID, m.Title, m.Year, string(cast), m.Kind, m.Image)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at FROM movies WHERE id = ?", m.ID).Scan(&m.CreatedAt)
}

// GetByExternalID returns ErrMovieNotFound when the title was never ingested.
func (r *MovieRepo) GetByExternalID(ctx context.Context, externalID string) (*model.Movie, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE external_id = ?", externalID)
	return scanMovie(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*model.Movie, error) {
	var (
		m    model.Movie
		cast sql.NullString
	)
	if err := row.Scan(&m.ID, &m.ExternalID, &m.Title, &m.Year, &cast, &m.Kind, &m.Image, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	if cast.Valid && cast.String != "" {
		if err := json.Unmarshal([]byte(cast.String), &m.Cast); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
