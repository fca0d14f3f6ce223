package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"vrijeme-relay-go/internal/service"
)

const reportContentType = "text/xml"

// RelayHandler serves the relayed DHMZ weather report.
type RelayHandler struct {
	service *service.RelayService
	logger  *slog.Logger
}

// NewRelayHandler creates a RelayHandler.
func NewRelayHandler(svc *service.RelayService, logger *slog.Logger) *RelayHandler {
	return &RelayHandler{
		service: svc,
		logger:  logger.With("component", "relay_handler"),
	}
}

// Handle fetches the upstream report and writes it back to the caller.
//
// Success is a 200 carrying the upstream bytes (possibly empty) with
// Content-Type: text/xml and a permissive CORS header, so browser clients on
// any origin can read the feed. A transport-level fetch failure maps to a
// bodiless 502 with no relay headers and no error detail.
func (h *RelayHandler) Handle(c echo.Context) error {
	body, err := h.service.FetchReport(c.Request().Context())
	if err != nil {
		h.logger.Error("relay error", "err", err)
		return c.NoContent(http.StatusBadGateway)
	}

	c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
	return c.Blob(http.StatusOK, reportContentType, body)
}
