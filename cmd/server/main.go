package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"octofit/config"
	"octofit/db"
	"octofit/middlewares"
	"octofit/routes"
	"octofit/utils"
)

func main() {
	configPath := flag.String("config", "./config/config.yml", "Path to config file")
	flag.Parse()

	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := db.OpenStores(ctx, cfg.Server.Storage, cfg.Database.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.DisconnectMongoDB(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	if err := middlewares.InitCasbin(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize RBAC")
	}

	agg, err := routes.NewAggregator(cfg, stores)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure leaderboard")
	}

	// The in-memory backend starts empty, so give local runs something to browse.
	if cfg.Server.Storage == db.BackendMemory {
		if _, err := utils.PopulateSampleData(ctx, stores, agg); err != nil {
			log.Fatal().Err(err).Msg("failed to load sample data")
		}
	}

	router := routes.SetupRouter(routes.Deps{Config: cfg, Stores: stores, Aggregator: agg})
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("storage", cfg.Server.Storage).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
