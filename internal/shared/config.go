package shared

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	ReviewsSourceURL   string
	ReviewsTTL         time.Duration
	ReviewsBackupRetry time.Duration
	ReviewsFetchTO     time.Duration

	AdminJWTSecret string
	SubmitRPS      float64
	SubmitBurst    int
	TrustedProxies string

	SeedFile    string
	SeedWorkers int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	secs := func(k string, def int) time.Duration {
		return time.Duration(atoi(k, def)) * time.Second
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/electrosite?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    secs("CACHE_TTL_SECONDS", 900),

		ReviewsSourceURL:   env("REVIEWS_SOURCE_URL", ""),
		ReviewsTTL:         secs("REVIEWS_TTL_SECONDS", 3600),
		ReviewsBackupRetry: secs("REVIEWS_BACKUP_RETRY_SECONDS", 300),
		ReviewsFetchTO:     secs("REVIEWS_FETCH_TIMEOUT_SECONDS", 10),

		AdminJWTSecret: env("ADMIN_JWT_SECRET", ""),
		SubmitRPS:      atof("SUBMIT_RPS", 1),
		SubmitBurst:    atoi("SUBMIT_BURST", 5),
		TrustedProxies: env("TRUSTED_PROXIES", ""),

		SeedFile:    env("SEED_FILE", "seed.yaml"),
		SeedWorkers: atoi("SEED_WORKERS", 4),
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
