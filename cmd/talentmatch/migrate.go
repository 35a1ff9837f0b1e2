package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/database/migration"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Duration("timeout", 2*time.Minute, "give up after this long")
	migrateCmd.Flags().Bool("status", false, "list migrations and whether they are applied, without applying any")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, dbCfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	runner := migration.Runner{Source: migrations.FS, Log: log}
	if status, _ := cmd.Flags().GetBool("status"); status {
		list, err := runner.Status(ctx, db.SQLDB())
		if err != nil {
			return err
		}
		printMigrationStatus(cmd.OutOrStdout(), list)
		return nil
	}
	return runner.Run(ctx, db.SQLDB())
}

func printMigrationStatus(w io.Writer, list []migration.Status) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED")
	for _, s := range list {
		applied := "pending"
		if s.Applied() {
			applied = s.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, s.Name, applied)
	}
	_ = tw.Flush()
}
