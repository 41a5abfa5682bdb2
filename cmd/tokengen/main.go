// Command tokengen mints development access tokens. Production tokens come from
// the identity service.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/security"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	partyID := flag.Int64("party", 0, "Party id the token is issued to")
	role := flag.String("role", string(domain.RoleClient), "CLIENT, STAFF or ADMIN")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	r := domain.Role(*role)
	if !r.Valid() || *partyID <= 0 {
		log.Fatalf("a positive -party and a valid -role are required")
	}

	lifetime := time.Duration(cfg.JWT.AccessTokenExpiry) * time.Minute
	token, err := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, lifetime).GenerateAccessToken(*partyID, r)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
