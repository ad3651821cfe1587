package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinereview/internal/model"
)

// FavoriteRepo maintains the users<->movies favorites relation.  The table's
// composite primary key guarantees a pair is stored at most once.
type FavoriteRepo struct {
	db *sql.DB
}

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

// Add connects a movie to a user's favorites.  ErrDuplicate means the pair
// already exists.
func (r *FavoriteRepo) Add(ctx context.Context, userID, movieID uint64) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO favorites (user_id, movie_id) VALUES (?, ?)", userID, movieID)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// Remove disconnects a movie.  ErrFavoriteNotFound means the pair did not exist.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, movieID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM favorites WHERE user_id = ? AND movie_id = ?", userID, movieID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// FindByExternalID returns the favorited movie with the given provider id,
// or ErrFavoriteNotFound when the user has not favorited it.
func (r *FavoriteRepo) FindByExternalID(ctx context.Context, userID uint64, externalID string) (*model.Movie, error) {
	const q = `SELECT m.id, m.external_id, m.title, m.year, m.cast_list, m.kind, m.image, m.created_at
	           FROM favorites f JOIN movies m ON m.id = f.movie_id
	           WHERE f.user_id = ? AND m.external_id = ?`
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, userID, externalID))
	if err == ErrMovieNotFound {
		return nil, ErrFavoriteNotFound
	}
	return m, err
}

// ListMovies returns the user's favorite movies in the order they were added.
func (r *FavoriteRepo) ListMovies(ctx context.Context, userID uint64) ([]*model.Movie, error) {
	const q = `SELECT m.id, m.external_id, m.title, m.year, m.cast_list, m.kind, m.image, m.created_at
	           FROM favorites f JOIN movies m ON m.id = f.movie_id
	           WHERE f.user_id = ?
	           ORDER BY f.created_at, m.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
