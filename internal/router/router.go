// Package router builds the Echo instance: it installs the global
// middleware stack and error handler, then mounts the system routes and the
// /api route group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bank-service/internal/handler"
	"github.com/deppfellow/bank-service/internal/middleware"
	"github.com/deppfellow/bank-service/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id must exist before the logger is built,
	// and the New Relic transaction before tracing and logging read it.
	// Metrics sits outermost so rate limited requests are counted too.
	router.Use(
		middlewares.Global.Metrics(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)

	api := router.Group("/api")
	h.Bank.RegisterRoutes(api)

	return router
}
