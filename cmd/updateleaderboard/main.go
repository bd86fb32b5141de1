package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"octofit/config"
	"octofit/db"
	"octofit/services"
	"octofit/utils"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			log.Error().Err(err).Msg("leaderboard update failed")
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) (err error) {
	flags := flag.NewFlagSet("updateleaderboard", flag.ContinueOnError)
	flags.SetOutput(out)
	configPath := flags.String("config", "./config/config.yml", "Path to config file")
	mode := flags.String("mode", "", "Publish mode: 'two-phase' or 'swap' (default: leaderboard.publishMode from config)")
	timeout := flags.Duration("timeout", 2*time.Minute, "Maximum time for the recompute")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if err := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return err
	}

	if *mode == "" {
		*mode = cfg.Leaderboard.PublishMode
	}
	publishMode, err := services.ParsePublishMode(*mode)
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		flags.PrintDefaults()
		return errUsage
	}
	if cfg.Server.Storage != config.StorageMongo {
		return fmt.Errorf("updateleaderboard requires server.storage: %s, got %q", config.StorageMongo, cfg.Server.Storage)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	stores, err := db.OpenStores(ctx, cfg.Server.Storage, cfg.Database.URI)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if derr := db.DisconnectMongoDB(disconnectCtx); derr != nil {
			log.Error().Err(derr).Msg("failed to disconnect from MongoDB")
			if err == nil {
				err = derr
			}
		}
	}()

	agg := services.NewLeaderboardAggregator(stores.Users, stores.Activities, stores.Leaderboard, publishMode)
	result, err := agg.Recompute(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Leaderboard updated (%s): %d entries replaced %d\n", result.Mode, result.Inserted, result.Deleted)
	if result.Dangling > 0 {
		fmt.Fprintf(out, "Warning: %d activities reference users that do not exist\n", result.Dangling)
	}
	return nil
}
