package repository

import (
	"context"

	"stock-insight-engine/internal/entity"

	"gorm.io/gorm"
)

type predictionLogRepository struct {
	db *gorm.DB
}

// NewPredictionLogRepository creates a gorm-backed prediction audit log.
func NewPredictionLogRepository(db *gorm.DB) PredictionLogRepository {
	return &predictionLogRepository{db: db}
}

func (r *predictionLogRepository) Create(ctx context.Context, log *entity.PredictionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *predictionLogRepository) GetRecent(ctx context.Context, symbol string, limit int) ([]entity.PredictionLog, error) {
	var logs []entity.PredictionLog
	query := r.db.WithContext(ctx).Order("created_at desc").Limit(limit)
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
