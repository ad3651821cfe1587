package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/cinereview/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, auth_subject_id, email, name, created_at"

// Create inserts a user and fills in ID and CreatedAt.  A second insert for
// the same subject returns ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (auth_subject_id, email, name) VALUES (?,?,?)",
		u.AuthSubjectID, u.Email, u.Name)
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
	u.ID = uint64(id)
	return r.DB.QueryRowContext(ctx, "SELECT created_at FROM users WHERE id=?", u.ID).Scan(&u.CreatedAt)
}

// GetBySubject fetches a user by identity provider subject.
func (r *UserRepo) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE auth_subject_id=? LIMIT 1", subject)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// UpdateName changes the display name.  It returns ErrUserNotFound when the
// id matches no row.
func (r *UserRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET name=? WHERE id=?", name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.AuthSubjectID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
