package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinereview/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc, retries uint, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(config.MovieAPIConfig{BaseURL: srv.URL, Key: "k", Host: "imdb188.p.rapidapi.com", Timeout: timeout, Retries: retries})
}

func TestLookup_FirstMatchNormalized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		assert.Equal(t, "tt0111161", r.URL.Query().Get("query"))
		assert.Equal(t, "k", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "imdb188.p.rapidapi.com", r.Header.Get("X-RapidAPI-Host"))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{"id": "tt0111161", "title": "The Shawshank Redemption", "year": 1994, "stars": "Tim Robbins, Morgan Freeman", "type": "movie", "image": "https://img/1.jpg"},
			{"id": "tt9999999", "title": "Other", "year": "2001"},
		}})
	}, 0, time.Second)

	d, err := c.Lookup(context.Background(), "tt0111161")
	require.NoError(t, err)
	assert.Equal(t, "tt0111161", d.ExternalID)
	assert.Equal(t, "The Shawshank Redemption", d.Title)
	assert.Equal(t, 1994, d.Year)
	assert.Equal(t, []string{"Tim Robbins", "Morgan Freeman"}, d.Cast)
	assert.Equal(t, "movie", d.Kind)
	assert.Equal(t, "https://img/1.jpg", d.Image)
}

func TestSearch_NoMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}, 2, time.Second)

	_, err := c.Search(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestSearch_RetriesTransientFailures(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"tt1","title":"One","stars":["A"," B "]}]}`))
	}, 2, time.Second)

	out, err := c.Search(context.Background(), "one")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"A", "B"}, out[0].Cast)
	assert.Equal(t, int32(2), hits.Load())
}

func TestSearch_ClientErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}, 3, time.Second)

	_, err := c.Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), hits.Load())
}

func TestSearch_TimeoutIsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 0, 50*time.Millisecond)

	start := time.Now()
	_, err := c.Search(context.Background(), "slow")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSearch_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, 0, time.Second)

	for i := 0; i < 5; i++ {
		_, err := c.Search(context.Background(), "x")
		require.ErrorIs(t, err, ErrUnavailable)
	}
	_, err := c.Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(5), hits.Load())
}

func TestSearch_CallerAbortsDoNotTripBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(20 * time.Millisecond):
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"tt1","title":"One"}]}`))
	}, 0, time.Second)

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, err := c.Search(ctx, "one")
		cancel()
		require.ErrorIs(t, err, ErrUnavailable)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Search(ctx, "one")
	require.ErrorIs(t, err, context.Canceled)

	out, err := c.Search(context.Background(), "one")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "tt1", out[0].ExternalID)
}

func TestSearch_GatewayTimeoutsTripBreaker(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 0, 10*time.Millisecond)

	for i := 0; i < 5; i++ {
		_, err := c.Search(context.Background(), "slow")
		require.ErrorIs(t, err, ErrUnavailable)
	}
	_, err := c.Search(context.Background(), "slow")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(5), hits.Load())
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, 2008, parseYear(json.RawMessage(`"2008–2013"`)))
	assert.Equal(t, 1999, parseYear(json.RawMessage(`1999`)))
	assert.Equal(t, 0, parseYear(nil))
	assert.Equal(t, 0, parseYear(json.RawMessage(`null`)))
}
