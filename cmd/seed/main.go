package main

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"electrosite/internal/adapters/observability"
	redisad "electrosite/internal/adapters/redis"
	"electrosite/internal/app"
	"electrosite/internal/shared"
	mysqlrepo "electrosite/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Msg("seed starting")

	f, err := os.Open(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("open seed file failed")
	}
	cat, err := app.LoadCatalog(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid seed file")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	admin := app.NewAdminService(repo, repo, cache)
	rep, err := admin.Seed(ctx, cat, cfg.SeedWorkers)
	if err != nil {
		log.Fatal().Err(err).Msg("seed aborted")
	}
	log.Info().Int("created", rep.Created).Int("failed", rep.Failed).Msg("seed completed")
	if rep.Failed > 0 {
		os.Exit(1)
	}
}
