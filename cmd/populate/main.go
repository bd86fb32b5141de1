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
			log.Error().Err(err).Msg("failed to populate database")
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) (err error) {
	flags := flag.NewFlagSet("populate", flag.ContinueOnError)
	flags.SetOutput(out)
	configPath := flags.String("config", "./config/config.yml", "Path to config file")
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
	if cfg.Server.Storage != config.StorageMongo {
		return fmt.Errorf("populate requires server.storage: %s, got %q", config.StorageMongo, cfg.Server.Storage)
	}
	mode, err := services.ParsePublishMode(cfg.Leaderboard.PublishMode)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
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

	agg := services.NewLeaderboardAggregator(stores.Users, stores.Activities, stores.Leaderboard, mode)
	summary, err := utils.PopulateSampleData(ctx, stores, agg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %d users\n", summary.Users)
	fmt.Fprintf(out, "Created %d teams\n", summary.Teams)
	fmt.Fprintf(out, "Created %d activities\n", summary.Activities)
	fmt.Fprintf(out, "Created %d leaderboard entries\n", summary.Leaderboard)
	fmt.Fprintf(out, "Created %d workouts\n", summary.Workouts)
	fmt.Fprintln(out, "Unique index on users.email is in place")
	return nil
}
