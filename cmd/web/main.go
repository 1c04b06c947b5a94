package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"estatehub_backend/database"
	"estatehub_backend/internal/app"
	"estatehub_backend/internal/config"
	"estatehub_backend/internal/logger"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "estatehub",
		Short:         "EstateHub - real-estate classifieds API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(indexesCmd())
	rootCmd.AddCommand(reindexCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp loads config, initialises the logger and runs fn against a connected App.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func serveCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket hub and background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if seed {
					if err := database.EnsureIndexes(ctx, a.DB); err != nil {
						return err
					}
					if err := a.Seed(ctx); err != nil {
						return err
					}
				}
				return a.Serve(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "seed the admin user and default categories before serving")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the first admin (ADMIN_EMAIL/ADMIN_PASSWORD) and default categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if err := database.EnsureIndexes(ctx, a.DB); err != nil {
					return err
				}
				return a.Seed(ctx)
			})
		},
	}
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create MongoDB indexes and the search index settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if err := database.EnsureIndexes(ctx, a.DB); err != nil {
					return err
				}
				if !a.Index.Enabled() {
					logger.Warn("MEILI_HOST is not set, skipping search index")
					return nil
				}
				return a.Index.Init(ctx)
			})
		},
	}
}

func reindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Push every approved, active listing to the search index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if !a.Index.Enabled() {
					return fmt.Errorf("search is disabled: set MEILI_HOST")
				}
				if err := a.Index.Init(ctx); err != nil {
					return err
				}
				n, err := a.Services.Property.Reindex(ctx)
				if err != nil {
					return err
				}
				logger.Info("Reindex finished", "documents", n)
				return nil
			})
		},
	}
}
