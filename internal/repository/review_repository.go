package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinereview/internal/model"
)

// ReviewRepo persists reviews and serves the joined read projections used
// by the public listing endpoints.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

const reviewColumns = "id, title, content, user_id, movie_id, created_at, updated_at"

// viewSelect joins every review with its movie and author.  Callers append
// WHERE/ORDER/LIMIT clauses.
const viewSelect = `SELECT r.id, r.title, r.content, r.user_id, r.movie_id, r.created_at, r.updated_at,
       m.external_id, m.title, m.image, u.name, u.email
FROM reviews r
JOIN movies m ON m.id = r.movie_id
JOIN users u ON u.id = r.user_id`

// Create inserts a review and reloads it so timestamps are populated.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (title, content, user_id, movie_id) VALUES (?, ?, ?, ?)",
		rv.Title, rv.Content, rv.UserID, rv.MovieID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*rv = *stored
	return nil
}

// GetByID returns ErrReviewNotFound when no row matches.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	var rv model.Review
	err := r.db.QueryRowContext(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE id = ?", id).
		Scan(&rv.ID, &rv.Title, &rv.Content, &rv.UserID, &rv.MovieID, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// Update rewrites title and content of a review owned by userID.  The
// user_id predicate keeps ownership enforced even if the row changed hands
// between the service's read and this write; no matched row is
// ErrReviewNotFound.
func (r *ReviewRepo) Update(ctx context.Context, id, userID uint64, title, content string) (*model.Review, error) {
	const q = `UPDATE reviews
	           SET title = ?, content = ?, updated_at = CURRENT_TIMESTAMP(3)
	           WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, q, title, content, id, userID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrReviewNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a review owned by userID.  It returns ErrReviewNotFound
// when nothing was deleted.
func (r *ReviewRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// GetView returns the denormalized projection of one review.
func (r *ReviewRepo) GetView(ctx context.Context, id uint64) (*model.ReviewView, error) {
	v, err := scanView(r.db.QueryRowContext(ctx, viewSelect+" WHERE r.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	return v, err
}

// ListRecent returns the newest reviews across all movies.
func (r *ReviewRepo) ListRecent(ctx context.Context, limit int) ([]*model.ReviewView, error) {
	return r.listViews(ctx, viewSelect+" ORDER BY r.created_at DESC, r.id DESC LIMIT ?", limit)
}

// ListByMovie returns all reviews of a movie, newest first.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID uint64) ([]*model.ReviewView, error) {
	return r.listViews(ctx, viewSelect+" WHERE r.movie_id = ? ORDER BY r.created_at DESC, r.id DESC", movieID)
}

// ListByUser returns all reviews written by a user, newest first.
func (r *ReviewRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.ReviewView, error) {
	return r.listViews(ctx, viewSelect+" WHERE r.user_id = ? ORDER BY r.created_at DESC, r.id DESC", userID)
}

func (r *ReviewRepo) listViews(ctx context.Context, q string, args ...any) ([]*model.ReviewView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.ReviewView{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanView(row rowScanner) (*model.ReviewView, error) {
	var v model.ReviewView
	err := row.Scan(&v.ID, &v.Title, &v.Content, &v.UserID, &v.MovieID, &v.CreatedAt, &v.UpdatedAt,
		&v.MovieExternalID, &v.MovieTitle, &v.MovieImage, &v.UserName, &v.UserEmail)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
