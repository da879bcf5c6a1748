package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bank-service/internal/handler"
	"github.com/deppfellow/bank-service/internal/server"
	"github.com/deppfellow/bank-service/static"
)

// registerSystemRoutes mounts the routes that are not part of the bank API:
// health, metrics, the docs UI and the embedded docs assets.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	r.StaticFS("/static", static.Files)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
