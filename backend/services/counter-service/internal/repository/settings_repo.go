package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	libdb "bclub/backend/libs/db"
	"bclub/backend/services/counter-service/internal/models"
)

// SettingsRepository persists the settings singleton.
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository returns repository.
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetOrCreate loads the singleton, inserting the defaults on first access.
func (r *SettingsRepository) GetOrCreate(ctx context.Context) (*models.Settings, error) {
	var s models.Settings
	err := r.db.WithContext(ctx).First(&s, models.SettingsID).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s = models.DefaultSettings()
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		if !libdb.IsDuplicateKey(err) {
			return nil, err
		}
		// Lost the insert race; the winner's row is authoritative.
		if err := r.db.WithContext(ctx).First(&s, models.SettingsID).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// Save writes every column of the singleton.
func (r *SettingsRepository) Save(ctx context.Context, s *models.Settings) error {
	s.ID = models.SettingsID
	return r.db.WithContext(ctx).Save(s).Error
}
