// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinereview/internal/auth"
	"github.com/iliyamo/cinereview/internal/config"
	"github.com/iliyamo/cinereview/internal/handler"
	"github.com/iliyamo/cinereview/internal/middleware"
)

// Handlers groups every handler the API serves.
type Handlers struct {
	Users     *handler.UserHandler
	Reviews   *handler.ReviewHandler
	Favorites *handler.FavoriteHandler
	Movies    *handler.MovieHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	CORSOrigins []string
	Verifier    auth.Verifier
	RateLimit   config.RateLimitConfig
	Redis       *redis.Client
	// Registry is exposed on /metrics when set.
	Registry *prometheus.Registry
}

// New builds the Echo instance with all routes registered.
func New(h Handlers, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	RegisterRoutes(e)
	if opts.Registry != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	limit := middleware.RateLimit(opts.RateLimit, opts.Redis)
	RegisterPublic(e, h, limit)
	RegisterAuthenticated(e, h, middleware.BearerAuth(opts.Verifier), limit)
	return e
}

// RegisterRoutes registers the liveness endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/ping", handler.Ping)
	e.GET("/", handler.Welcome)
}

// RegisterPublic registers the read-only endpoints guests may call.
func RegisterPublic(e *echo.Echo, h Handlers, mw ...echo.MiddlewareFunc) {
	e.GET("/details/reviewdetails/:reviewId", h.Reviews.Details, mw...)
	e.GET("/reviews", h.Reviews.Recent, mw...)
	e.GET("/movie-reviews/:movieId", h.Reviews.ForMovie, mw...)
	e.GET("/search-movies", h.Movies.Search, mw...)
}
