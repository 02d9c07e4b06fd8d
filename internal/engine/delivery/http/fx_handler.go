package http

import (
	"net/http"
	"strings"

	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/internal/engine/repository"
	"stock-insight-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// FXHandler serves currency conversion rates to the UI.
type FXHandler struct {
	fx     repository.FXRepository
	logger *logger.Logger
}

// NewFXHandler creates a new FXHandler.
func NewFXHandler(fx repository.FXRepository, logger *logger.Logger) *FXHandler {
	return &FXHandler{fx: fx, logger: logger}
}

// RegisterRoutes registers the FX routes to the Echo group.
func (h *FXHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/rate", h.GetRate)
}

// GetRate returns the conversion rate for a currency pair. Both codes
// default to USD; the identity pair answers 1.0 without a provider call.
func (h *FXHandler) GetRate(c echo.Context) error {
	var req dto.FXRateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Base == "" {
		req.Base = "USD"
	}
	if req.Quote == "" {
		req.Quote = "USD"
	}
	base := strings.ToUpper(req.Base)
	quote := strings.ToUpper(req.Quote)

	out, err := h.fx.GetRate(c.Request().Context(), base, quote)
	if err != nil {
		h.logger.Error("Failed to fetch FX rate", logger.ErrorField(err), logger.StringField("pair", base+"/"+quote))
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "Failed to fetch FX rate"})
	}
	return c.JSON(http.StatusOK, out)
}
