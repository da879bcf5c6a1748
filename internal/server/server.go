// Package server defines the Server struct that composes the app's shared
// dependencies and owns their lifecycle:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool (postgres data source only)
//   - redis client (cache enabled only)
//   - prometheus metrics registry
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/deppfellow/bank-service/internal/config"
	"github.com/deppfellow/bank-service/internal/database"
	loggerPkg "github.com/deppfellow/bank-service/internal/logger"
	"github.com/deppfellow/bank-service/internal/metrics"
)

const redisPingTimeout = 5 * time.Second

var ErrHTTPServerNotInitialized = errors.New("HTTP server not initialized")

// Server is the application container. It is not the HTTP server itself;
// that lives in httpServer and is configured by SetupHTTPServer.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// DB is nil unless the postgres data source is selected.
	DB *database.Database

	// Redis is nil unless the bank cache is enabled.
	Redis *redis.Client

	// Metrics backs GET /metrics. A nil value turns every observation
	// into a no-op.
	Metrics *metrics.Metrics

	httpServer *http.Server
}

// New builds the Server and opens only the connections the configured data
// source needs. A database that cannot be reached fails startup; an
// unreachable Redis is logged and tolerated since the cache falls through.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Metrics:       metrics.New(),
	}

	if cfg.DataSource.Kind == config.DataSourcePostgres {
		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		s.DB = db
	}

	if cfg.DataSource.CacheEnabled {
		s.Redis = newRedisClient(cfg.Redis, logger, loggerService)
	}

	return s, nil
}

func newRedisClient(cfg *config.RedisConfig, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Address,
	})

	if loggerService != nil && loggerService.GetApplication() != nil {
		client.AddHook(nrredis.NewHook(client.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Str("address", cfg.Address).Msg("failed to connect to Redis, bank cache will fall through")
	} else {
		logger.Info().Str("address", cfg.Address).Msg("connected to Redis")
	}

	return client
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return ErrHTTPServerNotInitialized
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("datasource", s.Config.DataSource.Kind).
		Bool("cache", s.Config.DataSource.CacheEnabled).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires, then closes the database pool and Redis client.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}

	return nil
}
