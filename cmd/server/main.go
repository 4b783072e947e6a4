package main

import (
	"context"
	"fmt"
	"os"

	"redditclone/internal/config"
	"redditclone/internal/db"
	"redditclone/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "redditclone",
		Short:         "Discussion board server: posts, comments, votes and sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newPurgeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and seed default subreddits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(cfg *config.Config, conn *gorm.DB, logger *zap.Logger) error {
				return db.Migrate(conn, logger)
			})
		},
	}
}

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-tokens",
		Short: "Delete password reset tokens older than RESET_TOKEN_TTL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(cfg *config.Config, conn *gorm.DB, logger *zap.Logger) error {
				app, err := buildApp(cmd.Context(), cfg, conn, logger)
				if err != nil {
					return err
				}
				defer app.Close()

				n, err := app.reset.PurgeExpired(cmd.Context())
				if err != nil {
					return err
				}
				logger.Info("Purged expired reset tokens", zap.Int64("deleted", n))
				return nil
			})
		},
	}
}

// withDatabase loads config, builds the logger and opens the database for fn.
func withDatabase(ctx context.Context, fn func(*config.Config, *gorm.DB, *zap.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	conn, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := conn.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(cfg, conn, logger)
}
