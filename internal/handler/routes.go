package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vrijeme-relay-go/internal/config"
	"vrijeme-relay-go/internal/metrics"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
//
// Only GET /dhmz serves the relay; every other path falls through to echo's
// default 404, and non-GET methods on registered paths get the default 405.
// That fallback behavior is part of the contract.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, relay *RelayHandler, health *HealthHandler) {
	e.GET("/dhmz", relay.Handle)

	e.GET("/healthz", health.Healthz)
	e.GET("/relay/status", health.Status)

	if cfg.Metrics.Enabled {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(
			promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}),
		))
	}
}
