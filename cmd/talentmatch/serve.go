package main

import (
	"fmt"

	"talent-match/internal/app"
	"talent-match/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the websocket notifier",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	c, err := app.NewContainer(ctx, cfg, log, app.ContainerOptions{})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("cleanup error", zap.Error(err))
		}
	}()

	log.Info("starting "+appName,
		zap.String("env", cfg.App.Environment),
		zap.String("queue_driver", cfg.Queue.Driver),
		zap.Bool("database", c.DB != nil),
		zap.Bool("cache", c.Cache.Available()),
	)
	return app.New(c).Serve(ctx)
}
