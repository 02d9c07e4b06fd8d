package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/internal/engine/repository"
	"stock-insight-engine/internal/engine/service"
	"stock-insight-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PredictionHandler handles HTTP requests for forecasts.
type PredictionHandler struct {
	predictionService service.PredictionService
	logger            *logger.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictionService service.PredictionService, logger *logger.Logger) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService, logger: logger}
}

// RegisterRoutes registers the prediction routes to the Echo group.
func (h *PredictionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Predict)
	g.GET("/models", h.GetModels)
	g.GET("/logs", h.GetLogs)
}

// Predict runs a forecast for one symbol and returns the reconciled result
// with its derived trend.
func (h *PredictionHandler) Predict(c echo.Context) error {
	var req dto.PredictionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.predictionService.GetPrediction(c.Request().Context(), req)
	if err != nil {
		return h.mapPredictionError(c, req.Symbol, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GetModels returns the catalog of trained models.
func (h *PredictionHandler) GetModels(c echo.Context) error {
	out, err := h.predictionService.GetModels(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to fetch model catalog", logger.ErrorField(err))
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "Model catalog unavailable"})
	}
	return c.JSON(http.StatusOK, out)
}

// GetLogs returns recent prediction audit records.
func (h *PredictionHandler) GetLogs(c echo.Context) error {
	symbol := strings.ToUpper(c.QueryParam("symbol"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	logs, err := h.predictionService.GetRecentLogs(c.Request().Context(), symbol, limit)
	if err != nil {
		h.logger.Error("Failed to fetch prediction logs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch prediction logs"})
	}
	return c.JSON(http.StatusOK, logs)
}

// mapPredictionError keeps the two failure modes distinguishable for the
// UI: missing data and model failure read differently.
func (h *PredictionHandler) mapPredictionError(c echo.Context, symbol string, err error) error {
	switch {
	case errors.Is(err, repository.ErrDataUnavailable):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Stock data not found for symbol: " + symbol})
	case errors.Is(err, repository.ErrInference):
		h.logger.Error("Inference failed", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "Model inference failed for symbol: " + symbol})
	default:
		h.logger.Error("Prediction failed", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}
