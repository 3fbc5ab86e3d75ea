package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bclub/backend/services/counter-service/internal/models"
)

// TableRepository reads and seeds billiard tables.
type TableRepository struct {
	db *gorm.DB
}

// NewTableRepository returns repository.
func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{db: db}
}

// List returns all tables in display order.
func (r *TableRepository) List(ctx context.Context) ([]models.BilliardTable, error) {
	var tables []models.BilliardTable
	err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&tables).Error
	return tables, err
}

// Get returns a table by identifier.
func (r *TableRepository) Get(ctx context.Context, id string) (*models.BilliardTable, error) {
	var t models.BilliardTable
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err, "table "+id)
	}
	return &t, nil
}

// Save writes every column of an existing table.
func (r *TableRepository) Save(ctx context.Context, t *models.BilliardTable) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// EnsureExists inserts the given tables, leaving existing rows untouched.
func (r *TableRepository) EnsureExists(ctx context.Context, tables []models.BilliardTable) error {
	if len(tables) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tables).Error
}
