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

// StockHandler handles HTTP requests for price history and indicators.
type StockHandler struct {
	marketData        repository.MarketDataRepository
	predictionService service.PredictionService
	logger            *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(marketData repository.MarketDataRepository, predictionService service.PredictionService, logger *logger.Logger) *StockHandler {
	return &StockHandler{marketData: marketData, predictionService: predictionService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListSymbols)
	g.GET("/:symbol", h.GetHistorical)
	g.GET("/:symbol/latest", h.GetLatest)
	g.GET("/:symbol/indicators", h.GetIndicators)
}

// ListSymbols returns every symbol the data backend can serve.
func (h *StockHandler) ListSymbols(c echo.Context) error {
	symbols, err := h.marketData.ListSymbols(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to fetch symbol list", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch available symbols"})
	}
	return c.JSON(http.StatusOK, dto.SymbolListResponse{Stocks: symbols, Count: len(symbols)})
}

// GetHistorical returns the filtered historical series for a symbol.
func (h *StockHandler) GetHistorical(c echo.Context) error {
	symbol := strings.ToUpper(c.Param("symbol"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	series, err := h.marketData.Historical(c.Request().Context(), symbol, limit)
	if err != nil {
		return h.mapDataError(c, symbol, err)
	}
	return c.JSON(http.StatusOK, series)
}

// GetLatest returns the latest authoritative bar for a symbol.
func (h *StockHandler) GetLatest(c echo.Context) error {
	symbol := strings.ToUpper(c.Param("symbol"))

	point, err := h.marketData.Latest(c.Request().Context(), symbol)
	if err != nil {
		return h.mapDataError(c, symbol, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"symbol": symbol, "latest": point})
}

// GetIndicators computes the indicator set over a symbol's recent closes.
func (h *StockHandler) GetIndicators(c echo.Context) error {
	symbol := strings.ToUpper(c.Param("symbol"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	set, err := h.predictionService.ComputeIndicators(c.Request().Context(), symbol, limit)
	if err != nil {
		return h.mapDataError(c, symbol, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"symbol": symbol, "indicators": set})
}

func (h *StockHandler) mapDataError(c echo.Context, symbol string, err error) error {
	if errors.Is(err, repository.ErrDataUnavailable) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Stock data not found for symbol: " + symbol})
	}
	h.logger.Error("Failed to fetch stock data", logger.ErrorField(err), logger.StringField("symbol", symbol))
	return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch stock data"})
}
