// Package gateway wraps the external movie metadata provider (the RapidAPI
// imdb188 search endpoint).  Every call is bounded by a timeout, retried on
// transient failures and guarded by a circuit breaker, and all failures are
// reduced to two sentinels so callers never see provider internals.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/iliyamo/cinereview/internal/config"
	"github.com/iliyamo/cinereview/internal/logger"
	"github.com/iliyamo/cinereview/internal/metrics"
	"github.com/iliyamo/cinereview/internal/model"
)

var (
	// ErrUnavailable covers network errors, non-2xx responses, undecodable
	// bodies, timeouts and an open circuit.
	ErrUnavailable = errors.New("movie provider unavailable")
	// ErrNoMatch means the provider answered but returned zero results.
	ErrNoMatch = errors.New("movie provider returned no match")
)

const searchPath = "/api/v1/searchIMDB"

// Client talks to the metadata provider.  It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	apiHost string
	timeout time.Duration
	retries uint
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[[]model.MovieDescriptor]
}

// New builds a client from configuration.  A zero timeout falls back to five
// seconds so a hung provider can never block a request indefinitely.
func New(cfg config.MovieAPIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.Key,
		apiHost: cfg.Host,
		timeout: timeout,
		retries: cfg.Retries,
		http:    &http.Client{Timeout: timeout},
	}
	c.cb = gobreaker.NewCircuitBreaker[[]model.MovieDescriptor](gobreaker.Settings{
		Name:        "movie-provider",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// An empty result set is a valid answer, not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoMatch)
		},
		// A caller that gives up says nothing about the provider's health.
		IsExcluded: func(err error) bool {
			var ae abortedError
			return errors.As(err, &ae)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.GatewayBreakerState.Set(float64(to))
			logger.Logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return c
}

// Lookup returns the first match for query.  It is used to ingest a movie
// by its external id.
func (c *Client) Lookup(ctx context.Context, query string) (model.MovieDescriptor, error) {
	all, err := c.Search(ctx, query)
	if err != nil {
		return model.MovieDescriptor{}, err
	}
	return all[0], nil
}

// Search returns every match for query in provider order.  The result is
// never empty: zero matches yield ErrNoMatch.
func (c *Client) Search(ctx context.Context, query string) ([]model.MovieDescriptor, error) {
	caller := ctx
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := retry.DoWithData(
		func() ([]model.MovieDescriptor, error) {
			return c.cb.Execute(func() ([]model.MovieDescriptor, error) {
				res, err := c.fetch(ctx, query)
				if err != nil && caller.Err() != nil {
					return nil, abortedError{caller.Err()}
				}
				return res, err
			})
		},
		retry.Context(ctx),
		retry.Attempts(c.retries+1),
		retry.Delay(100*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	)
	switch {
	case err == nil:
		metrics.GatewayRequests.WithLabelValues("ok").Inc()
		return out, nil
	case errors.Is(err, ErrNoMatch):
		metrics.GatewayRequests.WithLabelValues("no_match").Inc()
		return nil, ErrNoMatch
	case caller.Err() != nil:
		metrics.GatewayRequests.WithLabelValues("aborted").Inc()
		logger.Debug(ctx).Err(err).Str("query", query).Msg("movie provider request abandoned by caller")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, caller.Err())
	default:
		metrics.GatewayRequests.WithLabelValues("unavailable").Inc()
		logger.Error(ctx).Err(err).Str("query", query).Msg("movie provider request failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

// transientError marks failures worth another attempt (5xx, 429, transport).
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// abortedError wraps the caller's own cancellation or deadline.  The
// breaker ignores it; only the gateway's timeout counts against the provider.
type abortedError struct{ err error }

func (e abortedError) Error() string { return e.err.Error() }
func (e abortedError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

type searchResponse struct {
	Data []searchItem `json:"data"`
}

type searchItem struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Year  json.RawMessage `json:"year"`
	Stars json.RawMessage `json:"stars"`
	Type  string          `json:"type"`
	Image string          `json:"image"`
}

func (c *Client) fetch(ctx context.Context, query string) ([]model.MovieDescriptor, error) {
	u := c.baseURL + searchPath + "?" + url.Values{"query": {query}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
	}
	if c.apiHost != "" {
		req.Header.Set("X-RapidAPI-Host", c.apiHost)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, transientError{err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		err := fmt.Errorf("provider status %d", resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, transientError{err}
		}
		return nil, err
	}

	var body searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 2<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	if len(body.Data) == 0 {
		return nil, ErrNoMatch
	}
	out := make([]model.MovieDescriptor, 0, len(body.Data))
	for _, it := range body.Data {
		out = append(out, model.MovieDescriptor{
			ExternalID: it.ID,
			Title:      it.Title,
			Year:       parseYear(it.Year),
			Cast:       parseStars(it.Stars),
			Kind:       it.Type,
			Image:      it.Image,
		})
	}
	return out, nil
}

// parseYear accepts 1994, "1994" and ranges such as "2008-2013".
func parseYear(raw json.RawMessage) int {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		digits := t
		for i, r := range t {
			if r < '0' || r > '9' {
				digits = t[:i]
				break
			}
		}
		n, _ := strconv.Atoi(digits)
		return n
	}
	return 0
}

// parseStars accepts either a comma separated string or an array of names.
func parseStars(raw json.RawMessage) []string {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return nil
	}
	var names []string
	switch t := v.(type) {
	case string:
		names = strings.Split(t, ",")
	case []any:
		for _, x := range t {
			if s, ok := x.(string); ok {
				names = append(names, s)
			}
		}
	}
	out := names[:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
