package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ivankudzin/spark/internal/app/storage"
	"github.com/ivankudzin/spark/internal/config"
	redrepo "github.com/ivankudzin/spark/internal/repo/redis"
	feedsvc "github.com/ivankudzin/spark/internal/services/feed"
	interestssvc "github.com/ivankudzin/spark/internal/services/interests"
	matchessvc "github.com/ivankudzin/spark/internal/services/matches"
	profilesvc "github.com/ivankudzin/spark/internal/services/profiles"
	ratesvc "github.com/ivankudzin/spark/internal/services/rate"
	statssvc "github.com/ivankudzin/spark/internal/services/stats"
	"github.com/ivankudzin/spark/internal/transport/http/handlers"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	stores     *storage.Stores
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	stores, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var redisClient *goredis.Client
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		c, err := redrepo.NewClient(ctx, redrepo.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("redis init failed, profile cache and rate limiting disabled", zap.Error(err))
		} else {
			redisClient = c
		}
	}

	app := build(cfg, log, stores, redisClient)
	return app, nil
}

// build wires services and routes over already opened dependencies. redisClient may be nil.
func build(cfg config.Config, log *zap.Logger, stores *storage.Stores, redisClient *goredis.Client) *App {
	r := chi.NewRouter()
	ApplyMiddlewares(r, log, cfg.HTTP.RequestTimeout)

	profileService := profilesvc.NewService(stores.Profiles)
	interestService := interestssvc.NewService(interestssvc.Dependencies{
		Ledger:     stores.Interests,
		Matches:    stores.Matches,
		Profiles:   stores.Profiles,
		Transactor: stores.Transactor,
	})
	feedService := feedsvc.NewService(stores.Profiles, interestService, feedsvc.Config{
		DefaultLimit: cfg.Feed.DefaultLimit,
		MaxLimit:     cfg.Feed.MaxLimit,
	})
	matchService := matchessvc.NewService(stores.Matches, stores.Profiles)
	statsService := statssvc.NewService(stores.Interests, stores.Matches)

	checks := map[string]handlers.Pinger{
		stores.Backend: handlers.PingFunc(stores.Ping),
	}

	if redisClient != nil {
		if cfg.Cache.ProfileTTL > 0 {
			profileService.AttachCache(redrepo.NewProfileCacheRepo(redisClient, cfg.Cache.ProfileTTL))
		}
		if cfg.Rate.InterestsPerMinute > 0 || cfg.Rate.InterestsPer10Sec > 0 {
			interestService.AttachRateLimiter(ratesvc.NewLimiter(
				redrepo.NewRateRepo(redisClient),
				cfg.Rate.InterestsPerMinute,
				cfg.Rate.InterestsPer10Sec,
			))
		}
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	RegisterRoutes(r, Dependencies{
		ProfileService:  profileService,
		FeedService:     feedService,
		InterestService: interestService,
		MatchService:    matchService,
		StatsService:    statsService,
		HealthChecks:    checks,
		Logger:          log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		stores:     stores,
		redis:      redisClient,
		httpRouter: r,
	}
}

func (a *App) Run() error {
	a.logger.Info("api server started",
		zap.String("addr", a.cfg.HTTP.Addr),
		zap.String("store", a.stores.Backend),
		zap.Bool("redis", a.redis != nil),
	)
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.stores != nil {
		a.stores.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
