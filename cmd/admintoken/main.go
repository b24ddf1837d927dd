// Command admintoken prints a bearer token for the admin API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"electrosite/internal/adapters/auth"
	"electrosite/internal/adapters/observability"
	"electrosite/internal/shared"
)

func main() {
	subject := flag.String("sub", "admin", "token subject (who the token is for)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	is, err := auth.NewIssuer(cfg.AdminJWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("ADMIN_JWT_SECRET missing or too short")
	}
	tok, err := is.Issue(*subject, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("sign token failed")
	}
	fmt.Fprintln(os.Stdout, tok)
}
