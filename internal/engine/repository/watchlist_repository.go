package repository

import (
	"context"
	"strings"

	"stock-insight-engine/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type watchlistRepository struct {
	db *gorm.DB
}

// NewWatchlistRepository creates a gorm-backed watchlist store.
func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) GetAll(ctx context.Context) ([]entity.WatchlistItem, error) {
	var items []entity.WatchlistItem
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *watchlistRepository) Add(ctx context.Context, symbol string) (*entity.WatchlistItem, error) {
	item := entity.WatchlistItem{Symbol: strings.ToUpper(symbol)}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "symbol"}}, DoNothing: true}).
		Create(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *watchlistRepository) Remove(ctx context.Context, symbol string) error {
	return r.db.WithContext(ctx).
		Where("symbol = ?", strings.ToUpper(symbol)).
		Delete(&entity.WatchlistItem{}).Error
}
