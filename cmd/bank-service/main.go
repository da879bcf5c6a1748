package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/bank-service/internal/config"
	"github.com/deppfellow/bank-service/internal/database"
	"github.com/deppfellow/bank-service/internal/handler"
	"github.com/deppfellow/bank-service/internal/logger"
	"github.com/deppfellow/bank-service/internal/repository"
	"github.com/deppfellow/bank-service/internal/router"
	"github.com/deppfellow/bank-service/internal/server"
	"github.com/deppfellow/bank-service/internal/service"
)

const (
	shutdownTimeout  = 30 * time.Second
	migrationTimeout = time.Minute
)

type rootOptions struct {
	envFiles []string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	serve := newServeCmd()

	root := &cobra.Command{
		Use:           "bank-service",
		Short:         "HTTP service for bank records backed by a pluggable data source",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.envFiles) == 0 {
				return nil
			}
			// Variables already set in the environment win over the files.
			if err := godotenv.Load(opts.envFiles...); err != nil {
				return fmt.Errorf("failed to load env files: %w", err)
			}
			return nil
		},
		// Running the binary without a subcommand serves.
		RunE: serve.RunE,
	}

	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "extra .env files to load before reading BANKS_ variables")

	root.AddCommand(
		serve,
		newMigrateCmd(),
		newValidateCmd(),
	)

	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := logger.NewLogger(cfg.Observability)
			return migrate(cmd.Context(), &log, cfg)
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "config ok: env=%s datasource=%s cache=%t port=%s\n",
				cfg.Primary.Env, cfg.DataSource.Kind, cfg.DataSource.CacheEnabled, cfg.Server.Port)
			return nil
		},
	}
}

func migrate(ctx context.Context, log *zerolog.Logger, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, migrationTimeout)
	defer cancel()

	if err := database.Migrate(ctx, log, cfg); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// runServer wires the application and blocks until ctx is cancelled or the
// HTTP server stops on its own.
func runServer(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if cfg.DataSource.Kind == config.DataSourcePostgres {
		if err := migrate(ctx, &log, cfg); err != nil {
			return err
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	services, err := service.NewService(srv, repos)
	if err != nil {
		return fmt.Errorf("could not create services: %w", err)
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	var runErr error
	select {
	case runErr = <-serverErr:
		if runErr != nil {
			log.Error().Err(runErr).Msg("server stopped unexpectedly")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
	return runErr
}
