package entity

import (
	"time"

	"gorm.io/gorm"
)

// WatchlistItem is a user-tracked symbol driving alert-batch composition.
type WatchlistItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Symbol    string         `gorm:"not null;uniqueIndex" json:"symbol"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name for WatchlistItem.
func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
