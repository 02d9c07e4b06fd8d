package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PredictionLog is an audit record of a prediction run. Data carries the
// model_info and derived forecast snapshot as JSONB.
type PredictionLog struct {
	ID            int64          `json:"id"`
	Symbol        string         `json:"symbol"`
	ModelType     string         `json:"model_type"`
	SentimentType string         `json:"sentiment_type"`
	Horizon       int            `json:"horizon"`
	CurrentPrice  float64        `json:"current_price"`
	Trend         string         `json:"trend"`
	Confidence    float64        `json:"confidence"`
	Data          datatypes.JSON `gorm:"type:jsonb" json:"data"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"`
}

// TableName sets the table name for PredictionLog.
func (PredictionLog) TableName() string {
	return "prediction_logs"
}
