package entity

import "time"

// AlertType identifies the signal an alert was derived from.
type AlertType string

const (
	AlertTypePrice      AlertType = "price"
	AlertTypeSentiment  AlertType = "sentiment"
	AlertTypePrediction AlertType = "prediction"
)

// AlertSeverity is the qualitative priority tier of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Rank maps severity to its sort rank: high(0) < medium(1) < low(2).
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Alert is a single synthesized alert. Alerts live in memory for the
// lifetime of the process and are fully replaced by each synthesis run.
type Alert struct {
	ID        int64         `json:"id"`
	Type      AlertType     `json:"type"`
	Severity  AlertSeverity `json:"severity"`
	Symbol    string        `json:"symbol"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Read      bool          `json:"read"`
}
