package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bclub/backend/services/counter-service/internal/models"
)

// ClientRepository persists the client registry.
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository returns repository.
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// List returns registered clients by name, optionally filtered on is_active.
func (r *ClientRepository) List(ctx context.Context, isActive *bool) ([]models.Client, error) {
	q := r.db.WithContext(ctx)
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}
	var clients []models.Client
	err := q.Order("name ASC, id ASC").Find(&clients).Error
	return clients, err
}

// Get returns one registered client.
func (r *ClientRepository) Get(ctx context.Context, id int64) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("client %d", id))
	}
	return &c, nil
}

// Create inserts a client. A taken name is a conflict.
func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	return translate(r.db.WithContext(ctx).Create(c).Error, fmt.Sprintf("client %q", c.Name))
}

// Save writes every column of an existing client. A taken name is a conflict.
func (r *ClientRepository) Save(ctx context.Context, c *models.Client) error {
	return translate(r.db.WithContext(ctx).Save(c).Error, fmt.Sprintf("client %q", c.Name))
}
