package main

import (
	"context"
	"fmt"

	"talent-match/internal/app"
	"talent-match/internal/config"
	"talent-match/internal/infrastructure/queue"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume résumé analysis requests from the AMQP queue",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Queue.Driver != config.QueueDriverAMQP {
		return fmt.Errorf("worker needs QUEUE_DRIVER=%s, got %q", config.QueueDriverAMQP, cfg.Queue.Driver)
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	c, err := app.NewContainer(ctx, cfg, log, app.ContainerOptions{WithoutDispatch: true})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("cleanup error", zap.Error(err))
		}
	}()
	if c.DB == nil {
		return fmt.Errorf("worker needs a database: set DB_HOST and DB_NAME")
	}

	// No dashboards connect to a worker; the hub only drains events.
	c.Start(ctx)

	consumer := queue.NewConsumer(cfg.Queue.AMQPURL, cfg.Queue.QueueName, cfg.Queue.Workers, cfg.Queue.TaskTimeout, log)
	return consumer.Run(ctx, func(ctx context.Context, applicationID uuid.UUID) error {
		_, err := c.Analysis.AnalyzeApplication(ctx, applicationID)
		return err
	})
}
