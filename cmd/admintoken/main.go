package main

import (
	"flag"
	"fmt"
	"os"

	"stripe-checkout-demo/internal/config"
	"stripe-checkout-demo/internal/middleware"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// admintoken prints a bearer token for the discount and tax endpoints.
func main() {
	subject := flag.String("subject", "admin", "token subject, logged as user_id")
	flag.Parse()

	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Admin.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := middleware.NewAdminToken(cfg.Admin.JWTSecret, *subject, cfg.Admin.TokenTTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
