package http

import (
	"net/http"
	"strings"

	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/internal/engine/repository"
	"stock-insight-engine/internal/entity"
	"stock-insight-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SettingsHandler handles watchlist and notification preference requests.
type SettingsHandler struct {
	watchlist   repository.WatchlistRepository
	preferences repository.PreferencesRepository
	logger      *logger.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(watchlist repository.WatchlistRepository, preferences repository.PreferencesRepository, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{watchlist: watchlist, preferences: preferences, logger: logger}
}

// RegisterWatchlistRoutes registers the watchlist routes.
func (h *SettingsHandler) RegisterWatchlistRoutes(g *echo.Group) {
	g.GET("", h.GetWatchlist)
	g.POST("", h.AddToWatchlist)
	g.DELETE("/:symbol", h.RemoveFromWatchlist)
}

// RegisterPreferenceRoutes registers the preference routes.
func (h *SettingsHandler) RegisterPreferenceRoutes(g *echo.Group) {
	g.GET("", h.GetPreferences)
	g.PUT("", h.UpdatePreferences)
}

// GetWatchlist returns every tracked symbol.
func (h *SettingsHandler) GetWatchlist(c echo.Context) error {
	items, err := h.watchlist.GetAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to fetch watchlist", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch watchlist"})
	}
	return c.JSON(http.StatusOK, items)
}

// AddToWatchlist tracks one more symbol.
func (h *SettingsHandler) AddToWatchlist(c echo.Context) error {
	var req dto.AddWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.watchlist.Add(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("Failed to add watchlist item", logger.ErrorField(err), logger.StringField("symbol", req.Symbol))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to add watchlist item"})
	}
	return c.JSON(http.StatusCreated, item)
}

// RemoveFromWatchlist stops tracking a symbol.
func (h *SettingsHandler) RemoveFromWatchlist(c echo.Context) error {
	symbol := strings.ToUpper(c.Param("symbol"))
	if err := h.watchlist.Remove(c.Request().Context(), symbol); err != nil {
		h.logger.Error("Failed to remove watchlist item", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to remove watchlist item"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPreferences returns the notification toggles, defaults included.
func (h *SettingsHandler) GetPreferences(c echo.Context) error {
	prefs, err := h.preferences.Get(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to fetch preferences", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch preferences"})
	}
	return c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences replaces the notification toggles.
func (h *SettingsHandler) UpdatePreferences(c echo.Context) error {
	var req dto.UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	prefs := entity.NotificationPreferences{
		PriceAlerts:      req.PriceAlerts,
		SentimentAlerts:  req.SentimentAlerts,
		PredictionAlerts: req.PredictionAlerts,
		NewsAlerts:       req.NewsAlerts,
		EmailAlerts:      req.EmailAlerts,
		WeeklyReport:     req.WeeklyReport,
	}
	if err := h.preferences.Save(c.Request().Context(), prefs); err != nil {
		h.logger.Error("Failed to save preferences", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to save preferences"})
	}
	return c.JSON(http.StatusOK, prefs)
}
