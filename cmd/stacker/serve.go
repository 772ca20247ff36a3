package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/stitts-dev/nfl-stacker/internal/api"
	"github.com/stitts-dev/nfl-stacker/internal/cache"
	"github.com/stitts-dev/nfl-stacker/internal/metrics"
	"github.com/stitts-dev/nfl-stacker/internal/store"
	"github.com/stitts-dev/nfl-stacker/pkg/config"
	"github.com/stitts-dev/nfl-stacker/pkg/logger"
)

func runServe(args []string) error {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	cfgPath := flags.StringP("config", "c", "", "YAML config file with weights and thresholds")
	flags.StringP("port", "p", "8080", "HTTP port")
	flags.String("log-level", "info", "log level")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.LoadConfig(*cfgPath, flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	structuredLogger := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log := logger.WithService("stacker")
	log.WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("Starting lineup service")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	deps := api.Deps{
		Pipeline:     cfg.Pipeline(),
		Metrics:      metrics.NewRecorder(),
		BuildTimeout: cfg.BuildTimeout,
		Logger:       structuredLogger,
	}

	if cfg.DatabaseURL != "" {
		st, err := store.Open(cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer st.Close()
		deps.Store = st.WithLogger(log.WithField("component", "store"))
	} else {
		log.Warn("No database_url set, runs will not be persisted")
	}

	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.Connect(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			return err
		}
		defer client.Close()
		deps.Cache = cache.New(client, cfg.CacheTTL, structuredLogger)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.SetupRouter(deps),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("Lineup service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Info("Shutting down lineup service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("lineup service forced to shutdown: %w", err)
	}

	log.Info("Lineup service exited")
	return nil
}
