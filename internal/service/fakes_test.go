package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/iliyamo/cinereview/internal/gateway"
	"github.com/iliyamo/cinereview/internal/model"
	"github.com/iliyamo/cinereview/internal/queue"
	"github.com/iliyamo/cinereview/internal/repository/memory"
)

// fakeProvider serves canned descriptors keyed by query.
type fakeProvider struct {
	movies map[string]model.MovieDescriptor
	err    error
	calls  atomic.Int32
	// onLookup runs before every lookup when set.
	onLookup func()
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{movies: map[string]model.MovieDescriptor{
		"tt0111161": {ExternalID: "tt0111161", Title: "The Shawshank Redemption", Year: 1994, Cast: []string{"Tim Robbins", "Morgan Freeman"}, Kind: "movie", Image: "https://img.example/shawshank.jpg"},
		"tt0068646": {ExternalID: "tt0068646", Title: "The Godfather", Year: 1972, Cast: []string{"Marlon Brando", "Al Pacino"}, Kind: "movie", Image: "https://img.example/godfather.jpg"},
	}}
}

func (p *fakeProvider) Lookup(_ context.Context, q string) (model.MovieDescriptor, error) {
	p.calls.Add(1)
	if p.onLookup != nil {
		p.onLookup()
	}
	if p.err != nil {
		return model.MovieDescriptor{}, p.err
	}
	d, ok := p.movies[q]
	if !ok {
		return model.MovieDescriptor{}, gateway.ErrNoMatch
	}
	return d, nil
}

func (p *fakeProvider) Search(_ context.Context, q string) ([]model.MovieDescriptor, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	var out []model.MovieDescriptor
	for _, d := range p.movies {
		if strings.Contains(strings.ToLower(d.Title), strings.ToLower(q)) {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, gateway.ErrNoMatch
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	store     *memory.Store
	provider  *fakeProvider
	events    *recordingPublisher
	ingest    *MovieIngestion
	identity  *IdentityService
	reviews   *ReviewService
	favorites *FavoriteService
}

func newFixture() *fixture {
	st := memory.New()
	p := newFakeProvider()
	ev := &recordingPublisher{}
	ing := NewMovieIngestion(st.Movies(), p)
	return &fixture{
		store:     st,
		provider:  p,
		events:    ev,
		ingest:    ing,
		identity:  NewIdentityService(st.Users()),
		reviews:   NewReviewService(st.Reviews(), ing, ev),
		favorites: NewFavoriteService(st.Favorites(), ing, ev),
	}
}

func (f *fixture) user(subject, email, name string) *model.User {
	u, err := f.identity.Resolve(context.Background(), Identity{Subject: subject, Email: email, Name: name})
	if err != nil {
		panic(err)
	}
	return u
}
