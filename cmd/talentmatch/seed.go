package main

import (
	"context"
	"fmt"
	"time"

	"talent-match/internal/config"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/database/seeder"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a demo job with applicants",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, dbCfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := (seeder.Runner{Seeders: seeder.Defaults(), Log: log}).Run(ctx, db); err != nil {
		return err
	}
	log.Info("demo job ready", zap.String("job_id", seeder.DemoJobID.String()))
	return nil
}
