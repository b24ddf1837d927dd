package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"electrosite/internal/adapters/auth"
	server "electrosite/internal/adapters/http_server"
	"electrosite/internal/adapters/observability"
	redisad "electrosite/internal/adapters/redis"
	"electrosite/internal/adapters/reviewsource"
	"electrosite/internal/app"
	"electrosite/internal/domain"
	"electrosite/internal/shared"
	mysqlrepo "electrosite/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if cfg.AdminJWTSecret == "" {
		log.Warn().Msg("ADMIN_JWT_SECRET is empty; admin routes are disabled")
	}
	if cfg.ReviewsSourceURL == "" {
		log.Info().Msg("REVIEWS_SOURCE_URL is empty; serving backup reviews only")
	}
	trusted, err := server.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid TRUSTED_PROXIES")
	}

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	defer db.Close()
	log.Info().Msg("database connection ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(context.Background()); err != nil {
		// the catalog degrades to the database when redis is down
		log.Warn().Err(err).Msg("redis unavailable, continuing without a warm cache")
	}

	// external reviews: live page when configured, backup list otherwise
	var scraper domain.ReviewScraper
	if cfg.ReviewsSourceURL != "" {
		c, err := reviewsource.New(cfg.ReviewsSourceURL, 1)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REVIEWS_SOURCE_URL")
		}
		scraper = c
	}
	resolver := app.NewReviewResolver(scraper, cfg.ReviewsFetchTO)
	gate := app.NewReviewGate(resolver, cfg.ReviewsTTL, cfg.ReviewsBackupRetry)

	// deps
	repo := mysqlrepo.New(db)
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	admin := app.NewAdminService(repo, repo, cache)
	h := &server.Handlers{
		Q:       q,
		Reviews: app.NewPublicReviewService(gate, repo, admin),
		Contact: app.NewContactService(repo),
		Admin:   admin,
		Limiter: server.NewIPLimiter(cfg.SubmitRPS, cfg.SubmitBurst),
	}
	if cfg.AdminJWTSecret != "" {
		is, err := auth.NewIssuer(cfg.AdminJWTSecret)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid ADMIN_JWT_SECRET")
		}
		h.Auth = is
	}

	// http
	srv := server.New(log.Logger, 15*time.Second, trusted...)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Bool("admin", h.Auth != nil).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
