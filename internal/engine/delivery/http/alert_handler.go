package http

import (
	"errors"
	"net/http"
	"strconv"

	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/internal/engine/service"
	"stock-insight-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AlertHandler handles HTTP requests for the alert list.
type AlertHandler struct {
	alertService service.AlertService
	logger       *logger.Logger
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService service.AlertService, logger *logger.Logger) *AlertHandler {
	return &AlertHandler{alertService: alertService, logger: logger}
}

// RegisterRoutes registers the alert routes to the Echo group.
func (h *AlertHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("/refresh", h.Refresh)
	g.PUT("/:id/read", h.MarkRead)
	g.DELETE("/:id", h.Delete)
	g.DELETE("", h.Clear)
}

// List returns the current alert set in its deterministic order.
func (h *AlertHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.alertService.List())
}

// Refresh runs a full synthesis pass and returns the replacement list.
func (h *AlertHandler) Refresh(c echo.Context) error {
	alerts, err := h.alertService.Synthesize(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrEmptyBatch) {
			return c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "No alerts could be generated; all sources failed"})
		}
		h.logger.Error("Alert synthesis failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Alert synthesis failed"})
	}
	return c.JSON(http.StatusOK, alerts)
}

// MarkRead flags one alert as read.
func (h *AlertHandler) MarkRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid alert ID"})
	}
	if !h.alertService.MarkRead(id) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Alert not found"})
	}
	return c.JSON(http.StatusOK, h.alertService.List())
}

// Delete removes one alert.
func (h *AlertHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid alert ID"})
	}
	if !h.alertService.Delete(id) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Alert not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear drops every alert.
func (h *AlertHandler) Clear(c echo.Context) error {
	h.alertService.Clear()
	return c.NoContent(http.StatusNoContent)
}
