package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/cinereview/internal/model"
	"github.com/iliyamo/cinereview/internal/repository"
)

// Identity is what a verified bearer token tells us about the caller.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// IdentityService maps identity provider subjects to local users.
type IdentityService struct {
	users UserStore
}

func NewIdentityService(users UserStore) *IdentityService {
	if users == nil {
		panic("nil user store passed to NewIdentityService")
	}
	return &IdentityService{users: users}
}

// Resolve returns the user for id.Subject, creating it from the email and
// name claims the first time the subject is seen.  Later calls never
// re-sync those claims.
func (s *IdentityService) Resolve(ctx context.Context, id Identity) (*model.User, error) {
	if strings.TrimSpace(id.Subject) == "" {
		return nil, &ValidationError{Message: "subject claim is required"}
	}
	u, err := s.users.GetBySubject(ctx, id.Subject)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	u = &model.User{AuthSubjectID: id.Subject, Email: id.Email, Name: id.Name}
	switch err := s.users.Create(ctx, u); {
	case err == nil:
		return u, nil
	case errors.Is(err, repository.ErrDuplicate):
		// A parallel first request for the same subject won.
		return s.users.GetBySubject(ctx, id.Subject)
	default:
		return nil, err
	}
}

// Lookup returns the user for subject without creating one.
func (s *IdentityService) Lookup(ctx context.Context, subject string) (*model.User, error) {
	u, err := s.users.GetBySubject(ctx, subject)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

type profileInput struct {
	Name string `validate:"max=255"`
}

// UpdateProfile changes the display name.  A nil name leaves it unchanged.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID uint64, name *string) (*model.User, error) {
	if name != nil {
		in := profileInput{Name: strings.TrimSpace(*name)}
		if err := check(in); err != nil {
			return nil, err
		}
		if err := s.users.UpdateName(ctx, userID, in.Name); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}
