package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"octofit/config"
	"octofit/utils"
)

func main() {
	email := flag.String("email", "", "Operator email (required)")
	role := flag.String("role", "admin", "Role embedded in the token")
	configPath := flag.String("config", "./config/config.yml", "Path to config file")
	flag.Parse()

	if *email == "" {
		fmt.Println("Error: email is required")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	token, err := utils.GenerateAdminToken(cfg.JWT.Secret, *email, *role, time.Duration(cfg.JWT.Expiry)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to issue token")
	}
	fmt.Println(token)
}
