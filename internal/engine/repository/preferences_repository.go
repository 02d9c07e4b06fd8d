package repository

import (
	"context"
	"errors"

	"stock-insight-engine/internal/entity"

	"gorm.io/gorm"
)

type preferencesRepository struct {
	db *gorm.DB
}

// NewPreferencesRepository creates a gorm-backed preferences store. The
// store holds a single row; before the user saves anything, Get returns the
// all-enabled defaults.
func NewPreferencesRepository(db *gorm.DB) PreferencesRepository {
	return &preferencesRepository{db: db}
}

func (r *preferencesRepository) Get(ctx context.Context) (entity.NotificationPreferences, error) {
	var prefs entity.NotificationPreferences
	err := r.db.WithContext(ctx).Order("id asc").First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.DefaultPreferences(), nil
	}
	if err != nil {
		return entity.NotificationPreferences{}, err
	}
	return prefs, nil
}

func (r *preferencesRepository) Save(ctx context.Context, prefs entity.NotificationPreferences) error {
	var existing entity.NotificationPreferences
	err := r.db.WithContext(ctx).Order("id asc").First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(&prefs).Error
	}
	if err != nil {
		return err
	}
	prefs.ID = existing.ID
	return r.db.WithContext(ctx).Save(&prefs).Error
}
