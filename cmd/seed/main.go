// Command seed loads a YAML page fixture into the content database using the
// same DATABASE_* environment as the server.
//
// Usage:
//
//	seed --file pages.yaml [--tenant t1] [--dry-run]
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pagecontent/internal/config"
	"github.com/pagecontent/internal/db"
	"github.com/pagecontent/internal/logging"
	"github.com/pagecontent/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		file   string
		tenant string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load page fixtures into the content database",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, file, tenant, dryRun)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture to load")
	cmd.Flags().StringVar(&tenant, "tenant", "", "override the fixture tenant")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the fixture without writing")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, file, tenant string, dryRun bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	fixture, err := seed.Decode(f)
	if err != nil {
		return err
	}
	if override := strings.TrimSpace(tenant); override != "" {
		fixture.Tenant = override
	}
	if err := fixture.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintf(out, "fixture ok: tenant=%s pages=%d\n", fixture.Tenant, len(fixture.Pages))
		return nil
	}

	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gdb, err := db.OpenWithRetry(ctx, db.Options{
		Driver:      cfg.DatabaseDriver,
		DSN:         cfg.DatabaseDSN(),
		AutoMigrate: cfg.AutoMigrate,
		Logger:      logger,
	}, cfg.ConnectTimeout)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	result, err := seed.Apply(ctx, gdb, fixture)
	if err != nil {
		return err
	}

	logger.Info("fixture applied",
		zap.String("tenant", fixture.Tenant),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("layouts", result.Layouts),
	)
	fmt.Fprintf(out, "created=%d updated=%d layouts=%d\n", result.Created, result.Updated, result.Layouts)
	return nil
}
