package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/bank-service/internal/middleware"
	"github.com/deppfellow/bank-service/internal/server"
)

// HealthHandler reports whether the service and the dependencies its data
// source uses are reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	DataSource  string                 `json:"datasource"`
	Checks      map[string]checkResult `json:"checks"`
}

// CheckHealth answers 200 when every enabled check passes and 503
// otherwise. The database is checked only when the postgres source is in
// use; Redis only when the cache is enabled. A Redis failure marks its check
// unhealthy without failing the whole service, since the cache falls
// through to the data source.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		DataSource:  h.server.Config.DataSource.Kind,
		Checks:      make(map[string]checkResult),
	}
	isHealthy := true

	obs := h.server.Config.Observability
	timeout := 5 * time.Second
	if obs != nil && obs.HealthChecks.Timeout > 0 {
		timeout = obs.HealthChecks.Timeout
	}
	enabled := func(name string) bool {
		return obs == nil || obs.HasCheck(name)
	}

	if h.server.DB != nil && enabled("database") {
		result := h.runCheck(c.Request().Context(), logger, "database", timeout, h.server.DB.Ping)
		response.Checks["database"] = result
		if result.Status != "healthy" {
			isHealthy = false
		}
	}

	if h.server.Redis != nil && enabled("redis") {
		response.Checks["redis"] = h.runCheck(c.Request().Context(), logger, "redis", timeout, func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	if !isHealthy {
		response.Status = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError("overall", map[string]interface{}{
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) runCheck(
	parent context.Context,
	logger zerolog.Logger,
	name string,
	timeout time.Duration,
	ping func(ctx context.Context) error,
) checkResult {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordHealthCheckError(name, map[string]interface{}{
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return checkResult{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
	}

	return checkResult{Status: "healthy", ResponseTime: elapsed.String()}
}

func (h *HealthHandler) recordHealthCheckError(checkType string, attrs map[string]interface{}) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}
	attrs["check_type"] = checkType
	attrs["operation"] = "health_check"
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
}
