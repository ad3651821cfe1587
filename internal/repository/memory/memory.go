// Package memory is an in-process store with the same contract as the
// MySQL repositories, including unique external ids, unique subjects and
// unique favorite pairs.  It backs STORE_DRIVER=memory and unit tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/cinereview/internal/model"
	"github.com/iliyamo/cinereview/internal/repository"
)

// Store holds every table.  The per-table repos below share its lock.
type Store struct {
	mu        sync.RWMutex
	now       func() time.Time
	seq       uint64
	users     map[uint64]*model.User
	movies    map[uint64]*model.Movie
	reviews   map[uint64]*model.Review
	favorites map[[2]uint64]model.Favorite
}

// New returns an empty store.  Timestamps advance by a millisecond per
// write so ordering by creation time is deterministic.
func New() *Store {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Store{
		users:     map[uint64]*model.User{},
		movies:    map[uint64]*model.Movie{},
		reviews:   map[uint64]*model.Review{},
		favorites: map[[2]uint64]model.Favorite{},
	}
	s.now = func() time.Time { return base.Add(time.Duration(s.seq) * time.Millisecond) }
	return s
}

func (s *Store) Users() *UserRepo         { return &UserRepo{s} }
func (s *Store) Movies() *MovieRepo       { return &MovieRepo{s} }
func (s *Store) Reviews() *ReviewRepo     { return &ReviewRepo{s} }
func (s *Store) Favorites() *FavoriteRepo { return &FavoriteRepo{s} }

// MovieCount reports how many movie rows exist.
func (s *Store) MovieCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

func (s *Store) nextID() uint64 {
	s.seq++
	return s.seq
}

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.AuthSubjectID == u.AuthSubjectID {
			return repository.ErrDuplicate
		}
	}
	u.ID = r.s.nextID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = r.s.now()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetBySubject(_ context.Context, subject string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.AuthSubjectID == subject {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id uint64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) UpdateName(_ context.Context, id uint64, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Name = name
	return nil
}

type MovieRepo struct{ s *Store }

func (r *MovieRepo) Create(_ context.Context, m *model.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.movies {
		if existing.ExternalID == m.ExternalID {
			return repository.ErrDuplicate
		}
	}
	m.ID = r.s.nextID()
	m.CreatedAt = r.s.now()
	cp := *m
	cp.Cast = append([]string(nil), m.Cast...)
	r.s.movies[m.ID] = &cp
	return nil
}

func (r *MovieRepo) GetByExternalID(_ context.Context, externalID string) (*model.Movie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if m := r.s.movieByExternalID(externalID); m != nil {
		cp := *m
		return &cp, nil
	}
	return nil, repository.ErrMovieNotFound
}

func (s *Store) movieByExternalID(externalID string) *model.Movie {
	for _, m := range s.movies {
		if m.ExternalID == externalID {
			return m
		}
	}
	return nil
}

type ReviewRepo struct{ s *Store }

func (r *ReviewRepo) Create(_ context.Context, rv *model.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv.ID = r.s.nextID()
	rv.CreatedAt = r.s.now()
	rv.UpdatedAt = rv.CreatedAt
	cp := *rv
	r.s.reviews[rv.ID] = &cp
	return nil
}

func (r *ReviewRepo) GetByID(_ context.Context, id uint64) (*model.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	cp := *rv
	return &cp, nil
}

func (r *ReviewRepo) Update(_ context.Context, id, userID uint64, title, content string) (*model.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok || rv.UserID != userID {
		return nil, repository.ErrReviewNotFound
	}
	r.s.seq++
	rv.Title, rv.Content, rv.UpdatedAt = title, content, r.s.now()
	cp := *rv
	return &cp, nil
}

func (r *ReviewRepo) Delete(_ context.Context, id, userID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok || rv.UserID != userID {
		return repository.ErrReviewNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

func (r *ReviewRepo) GetView(_ context.Context, id uint64) (*model.ReviewView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	return r.s.view(rv), nil
}

func (r *ReviewRepo) ListRecent(_ context.Context, limit int) ([]*model.ReviewView, error) {
	out := r.list(func(*model.Review) bool { return true })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReviewRepo) ListByMovie(_ context.Context, movieID uint64) ([]*model.ReviewView, error) {
	return r.list(func(rv *model.Review) bool { return rv.MovieID == movieID }), nil
}

func (r *ReviewRepo) ListByUser(_ context.Context, userID uint64) ([]*model.ReviewView, error) {
	return r.list(func(rv *model.Review) bool { return rv.UserID == userID }), nil
}

func (r *ReviewRepo) list(keep func(*model.Review) bool) []*model.ReviewView {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*model.ReviewView{}
	for _, rv := range r.s.reviews {
		if keep(rv) {
			out = append(out, r.s.view(rv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// view must be called with the lock held.
func (s *Store) view(rv *model.Review) *model.ReviewView {
	v := &model.ReviewView{Review: *rv}
	if m, ok := s.movies[rv.MovieID]; ok {
		v.MovieExternalID, v.MovieTitle, v.MovieImage = m.ExternalID, m.Title, m.Image
	}
	if u, ok := s.users[rv.UserID]; ok {
		v.UserName, v.UserEmail = u.Name, u.Email
	}
	return v
}

type FavoriteRepo struct{ s *Store }

func (r *FavoriteRepo) Add(_ context.Context, userID, movieID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]uint64{userID, movieID}
	if _, ok := r.s.favorites[key]; ok {
		return repository.ErrDuplicate
	}
	r.s.seq++
	r.s.favorites[key] = model.Favorite{UserID: userID, MovieID: movieID, CreatedAt: r.s.now()}
	return nil
}

func (r *FavoriteRepo) Remove(_ context.Context, userID, movieID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]uint64{userID, movieID}
	if _, ok := r.s.favorites[key]; !ok {
		return repository.ErrFavoriteNotFound
	}
	delete(r.s.favorites, key)
	return nil
}

func (r *FavoriteRepo) FindByExternalID(_ context.Context, userID uint64, externalID string) (*model.Movie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m := r.s.movieByExternalID(externalID)
	if m == nil {
		return nil, repository.ErrFavoriteNotFound
	}
	if _, ok := r.s.favorites[[2]uint64{userID, m.ID}]; !ok {
		return nil, repository.ErrFavoriteNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *FavoriteRepo) ListMovies(_ context.Context, userID uint64) ([]*model.Movie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	type entry struct {
		m  *model.Movie
		at time.Time
	}
	var entries []entry
	for _, f := range r.s.favorites {
		if f.UserID != userID {
			continue
		}
		if m, ok := r.s.movies[f.MovieID]; ok {
			cp := *m
			entries = append(entries, entry{&cp, f.CreatedAt})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].at.Before(entries[j].at) })
	out := make([]*model.Movie, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.m)
	}
	return out, nil
}
