package dto

// AddWatchlistRequest adds one symbol to the watchlist.
type AddWatchlistRequest struct {
	Symbol string `json:"symbol" validate:"required,alphanum,uppercase,max=10"`
}

// UpdatePreferencesRequest replaces the notification preference toggles.
type UpdatePreferencesRequest struct {
	PriceAlerts      bool `json:"price_alerts"`
	SentimentAlerts  bool `json:"sentiment_alerts"`
	PredictionAlerts bool `json:"prediction_alerts"`
	NewsAlerts       bool `json:"news_alerts"`
	EmailAlerts      bool `json:"email_alerts"`
	WeeklyReport     bool `json:"weekly_report"`
}
