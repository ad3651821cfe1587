package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iliyamo/cinereview/internal/auth"
	"github.com/iliyamo/cinereview/internal/config"
	"github.com/iliyamo/cinereview/internal/database"
	"github.com/iliyamo/cinereview/internal/gateway"
	"github.com/iliyamo/cinereview/internal/handler"
	"github.com/iliyamo/cinereview/internal/logger"
	"github.com/iliyamo/cinereview/internal/metrics"
	"github.com/iliyamo/cinereview/internal/queue"
	"github.com/iliyamo/cinereview/internal/repository"
	"github.com/iliyamo/cinereview/internal/repository/memory"
	"github.com/iliyamo/cinereview/internal/router"
	"github.com/iliyamo/cinereview/internal/service"
)

// stores bundles the four tables behind the service interfaces.
type stores struct {
	users     service.UserStore
	movies    service.MovieStore
	reviews   service.ReviewStore
	favorites service.FavoriteStore
	close     func() error
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init("cinereview", cfg.LogLevel, cfg.IsDevelopment())
	log := logger.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}
	defer func() { _ = st.close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(reg)

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.Events.Enabled {
		events = queue.NewPublisher(cfg.Events.URL)
		if cfg.Events.Consumer {
			go func() {
				if err := queue.StartActivityConsumer(ctx, cfg.Events.URL, cfg.Events.LogDir); err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("activity consumer stopped")
				}
			}()
		}
	}

	ids := service.NewIdentityService(st.users)
	ingest := service.NewMovieIngestion(st.movies, gateway.New(cfg.MovieAPI))
	h := router.Handlers{
		Users:     handler.NewUserHandler(ids),
		Reviews:   handler.NewReviewHandler(ids, service.NewReviewService(st.reviews, ingest, events)),
		Favorites: handler.NewFavoriteHandler(ids, service.NewFavoriteService(st.favorites, ingest, events)),
		Movies:    handler.NewMovieHandler(ingest),
	}

	e := router.New(h, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		Verifier:    newVerifier(ctx, cfg.Auth),
		RateLimit:   config.LoadRateLimitConfig(),
		Redis:       config.NewRedisClient(config.LoadRedisConfig()),
		Registry:    reg,
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("stopped")
}

func newVerifier(ctx context.Context, ac config.AuthConfig) auth.Verifier {
	if ac.SharedSecret != "" {
		logger.Logger.Warn().Msg("using shared-secret token verification; do not use in production")
		return auth.NewSharedSecretVerifier(ac.SharedSecret, ac.Issuer, ac.Audience)
	}
	return auth.NewOIDCVerifier(ctx, ac.Issuer, ac.Audience, ac.JWKSURL)
}

func openStores(cfg config.Config) (*stores, error) {
	if cfg.StoreDriver == "memory" {
		m := memory.New()
		return &stores{
			users:     m.Users(),
			movies:    m.Movies(),
			reviews:   m.Reviews(),
			favorites: m.Favorites(),
			close:     func() error { return nil },
		}, nil
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, err
	}
	if cfg.DBMigrate {
		if err := migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &stores{
		users:     repository.NewUserRepo(db),
		movies:    repository.NewMovieRepo(db),
		reviews:   repository.NewReviewRepo(db),
		favorites: repository.NewFavoriteRepo(db),
		close:     db.Close,
	}, nil
}

func migrate(db *sql.DB) error {
	v, err := database.Migrate(db)
	if err != nil {
		return err
	}
	logger.Logger.Info().Int64("version", v).Msg("schema migrated")
	return nil
}
