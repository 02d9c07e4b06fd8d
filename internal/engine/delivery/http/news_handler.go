package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/internal/engine/repository"
	"stock-insight-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// NewsHandler proxies news sentiment summaries to the UI.
type NewsHandler struct {
	news   repository.NewsSentimentRepository
	logger *logger.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(news repository.NewsSentimentRepository, logger *logger.Logger) *NewsHandler {
	return &NewsHandler{news: news, logger: logger}
}

// RegisterRoutes registers the news routes to the Echo group.
func (h *NewsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:symbol", h.GetSentiment)
}

// GetSentiment returns the scored articles and overall sentiment for a
// symbol over a lookback window.
func (h *NewsHandler) GetSentiment(c echo.Context) error {
	symbol := strings.ToUpper(c.Param("symbol"))

	days, _ := strconv.Atoi(c.QueryParam("days"))
	if days <= 0 || days > 30 {
		days = 7
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 50 {
		limit = 15
	}

	out, err := h.news.GetSentiment(c.Request().Context(), symbol, days, limit)
	if err != nil {
		if errors.Is(err, repository.ErrNotConfigured) {
			return c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "News sentiment provider is not configured"})
		}
		h.logger.Error("Failed to fetch news sentiment", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "Failed to fetch news sentiment"})
	}
	return c.JSON(http.StatusOK, out)
}
