package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"systems-console/internal/domain/ports/adapter"
	"systems-console/internal/domain/ports/repository"
	"systems-console/internal/infra/db/postgres"
	"systems-console/internal/infra/i18n"
	"systems-console/internal/infra/metrics"
	red "systems-console/internal/infra/redis"
	"systems-console/internal/infra/web"
	"systems-console/internal/usecase"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the console HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply the database schema before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	metrics.MustRegister()
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	pool, err := postgres.NewPgxPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	if migrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		logger.Info().Msg("schema applied")
	}

	// ---- Repositories ----
	var (
		userRepo   repository.UserRepository   = postgres.NewUserRepo(pool)
		configRepo repository.ConfigRepository = postgres.NewConfigRepo(pool)
		limiter    adapter.RateLimiter
	)

	// ---- Redis (optional) ----
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		userRepo = postgres.NewUserRepoCacheDecorator(userRepo, redisClient, cfg.Redis.UserTTL, logger)
		configRepo = postgres.NewConfigRepoCacheDecorator(configRepo, redisClient, cfg.Redis.TTL, logger)
		limiter = red.NewRateLimiter(redisClient)
		logger.Info().Msg("redis cache and download rate limiter enabled")
	} else {
		logger.Info().Msg("redis not configured; caching and rate limiting disabled")
	}

	tm := postgres.NewTxManager(pool)

	// ---- Use cases ----
	keyUC := usecase.NewActivationKeyUseCase(
		postgres.NewActivationKeyRepo(pool),
		postgres.NewChannelRepo(pool),
		postgres.NewContactMethodRepo(pool),
		postgres.NewOrgRepo(pool),
		tm,
		logger,
	)
	userUC := usecase.NewUserUseCase(userRepo, tm, logger)
	configUC := usecase.NewConfigUseCase(configRepo, limiter, usecase.DownloadLimit{
		Limit:  cfg.Download.RateLimit,
		Window: cfg.Download.RateWindow,
	}, logger)

	// ---- HTTP ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.I18n.Lang)
	if err != nil {
		return err
	}
	srv := web.NewServer(keyUC, userUC, configUC, userRepo, web.NewAuthManager(cfg.Auth), tr, cfg.HTTP.RequestTimeout, logger)

	servers := []*http.Server{{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		servers = append(servers, &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			logger.Info().Str("addr", s.Addr).Msg("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		postgres.ReportPoolStats(gctx, pool, 15*time.Second, logger)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
		defer cancel()
		var errs []error
		for _, s := range servers {
			errs = append(errs, s.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
