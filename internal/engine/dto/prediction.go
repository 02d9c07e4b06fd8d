package dto

import "stock-insight-engine/internal/entity"

// PredictionRequest is the UI-level request for a forecast. Either a
// timeframe token or an explicit horizon may be supplied; the orchestrator
// resolves and clamps the effective horizon per model family.
type PredictionRequest struct {
	Symbol        string `json:"symbol" validate:"required,alphanum,uppercase,max=10"`
	ModelType     string `json:"model_type" validate:"omitempty,oneof=LSTM GRU CNN RNN TIMESNET TRANSFORMER"`
	SentimentType string `json:"sentiment_type" validate:"omitempty,oneof=sentiment nonsentiment"`
	TrainingSize  int    `json:"training_size" validate:"omitempty,oneof=5 25 50"`
	Timeframe     string `json:"timeframe" validate:"omitempty,oneof=1D 3D 1W 2W 1M"`
	Horizon       int    `json:"horizon" validate:"omitempty,min=1,max=30"`
}

// ApplyDefaults fills the optional fields the way the dashboard does.
func (r *PredictionRequest) ApplyDefaults() {
	if r.ModelType == "" {
		r.ModelType = string(entity.ModelLSTM)
	}
	if r.SentimentType == "" {
		r.SentimentType = string(entity.SentimentNone)
	}
	if r.TrainingSize == 0 {
		r.TrainingSize = 50
	}
	if r.Timeframe == "" && r.Horizon == 0 {
		r.Timeframe = "3D"
	}
}

// InferencePayload is the request body sent to the inference backend's
// POST /predictions endpoint.
type InferencePayload struct {
	Symbol           string `json:"symbol"`
	ModelType        string `json:"model_type"`
	SentimentType    string `json:"sentiment_type"`
	NumCSVs          int    `json:"num_csvs"`
	PredictionLength int    `json:"prediction_length"`
}

// InferenceResponse is the inference backend's prediction response. The
// backend's current_price is computed from whatever base series the model
// last saw and may lag the authoritative close.
type InferenceResponse struct {
	Symbol         string                 `json:"symbol"`
	Predictions    []float64              `json:"predictions"`
	CurrentPrice   *float64               `json:"current_price"`
	PredictionType string                 `json:"prediction_type"`
	ModelInfo      map[string]interface{} `json:"model_info"`
}

// PredictionResult is the reconciled forecast returned to the UI.
type PredictionResult struct {
	Symbol       string                 `json:"symbol"`
	CurrentPrice float64                `json:"current_price"`
	Predictions  []float64              `json:"predictions"`
	Horizon      int                    `json:"horizon"`
	ModelInfo    map[string]interface{} `json:"model_info"`
}

// PredictionResponse pairs the raw result with its derived forecast.
type PredictionResponse struct {
	Result   PredictionResult       `json:"result"`
	Forecast entity.DerivedForecast `json:"forecast"`
}

// ModelCatalogResponse mirrors GET /predictions/models.
type ModelCatalogResponse struct {
	Models     []map[string]interface{} `json:"models"`
	Count      int                      `json:"count"`
	ModelTypes []string                 `json:"model_types"`
}
