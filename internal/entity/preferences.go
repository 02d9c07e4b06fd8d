package entity

import (
	"time"

	"gorm.io/gorm"
)

// NotificationPreferences gates which alert categories are generated. The
// toggles gate generation, not delivery.
type NotificationPreferences struct {
	ID               uint           `gorm:"primaryKey" json:"-"`
	PriceAlerts      bool           `json:"price_alerts"`
	SentimentAlerts  bool           `json:"sentiment_alerts"`
	PredictionAlerts bool           `json:"prediction_alerts"`
	NewsAlerts       bool           `json:"news_alerts"`
	EmailAlerts      bool           `json:"email_alerts"`
	WeeklyReport     bool           `json:"weekly_report"`
	CreatedAt        time.Time      `json:"-"`
	UpdatedAt        time.Time      `json:"-"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name for NotificationPreferences.
func (NotificationPreferences) TableName() string {
	return "notification_preferences"
}

// DefaultPreferences returns the all-enabled defaults used before the user
// saves anything.
func DefaultPreferences() NotificationPreferences {
	return NotificationPreferences{
		PriceAlerts:      true,
		SentimentAlerts:  true,
		PredictionAlerts: true,
		NewsAlerts:       true,
		EmailAlerts:      false,
		WeeklyReport:     false,
	}
}
