package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/stitts-dev/nfl-stacker/internal/export"
	"github.com/stitts-dev/nfl-stacker/internal/ingest"
	"github.com/stitts-dev/nfl-stacker/internal/pipeline"
	"github.com/stitts-dev/nfl-stacker/internal/store"
	"github.com/stitts-dev/nfl-stacker/pkg/config"
	"github.com/stitts-dev/nfl-stacker/pkg/logger"
)

func runBuild(args []string) error {
	flags := pflag.NewFlagSet("build", pflag.ContinueOnError)
	input := flags.StringP("input", "i", "", "directory holding the slate CSVs")
	out := flags.StringP("out", "o", "out", "directory the CSV reports are written to")
	cfgPath := flags.StringP("config", "c", "", "YAML config file with weights and thresholds")
	flags.Int64("seed", 42, "search seed")
	flags.Int("lineups", 150, "number of lineups to build")
	flags.String("log-level", "info", "log level")
	flags.String("database-url", "", "persist the run to this database")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *input == "" {
		return errors.New("--input is required")
	}

	cfg, err := config.LoadConfig(*cfgPath, flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log := logger.WithService("stacker").WithField("command", "build")

	in, err := ingest.LoadDir(*input, log)
	if err != nil {
		return fmt.Errorf("failed to load slate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runCfg := cfg.Pipeline()
	res, runErr := pipeline.Run(ctx, in, runCfg, pipeline.WithLogger(log))
	if res == nil {
		return runErr
	}

	// an interrupted run still writes what it built
	if err := export.WriteDir(*out, res, log); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	if cfg.DatabaseURL != "" {
		if err := persist(ctx, cfg, res, runCfg, log); err != nil {
			return err
		}
	}

	for _, t := range res.Tiers {
		if t.Requested == 0 {
			continue
		}
		logger.WithTierContext(log, string(t.Tier)).WithFields(logrus.Fields{
			"requested": t.Requested,
			"built":     t.Built,
			"attempts":  t.Attempts,
		}).Info("Tier summary")
	}
	log.WithFields(logrus.Fields{
		"run_id":    res.RunID,
		"lineups":   len(res.Lineups),
		"shortfall": res.Shortfall(),
		"out":       *out,
	}).Info("Build finished")
	return nil
}

func persist(ctx context.Context, cfg *config.Config, res *pipeline.Result, runCfg pipeline.Config, log *logrus.Entry) error {
	st, err := store.Open(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()
	return st.WithLogger(log.WithField("component", "store")).SaveRun(ctx, res, runCfg)
}
