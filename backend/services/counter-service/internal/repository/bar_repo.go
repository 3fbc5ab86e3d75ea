package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bclub/backend/services/counter-service/internal/models"
)

// OrderFilter narrows bar order listings. Zero fields do not filter.
type OrderFilter struct {
	Date   string
	IsPaid *bool
}

// BarRepository persists inventory and bar orders.
type BarRepository struct {
	db *gorm.DB
}

// NewBarRepository returns repository.
func NewBarRepository(db *gorm.DB) *BarRepository {
	return &BarRepository{db: db}
}

// ListItems returns inventory, optionally only active items.
func (r *BarRepository) ListItems(ctx context.Context, activeOnly bool) ([]models.InventoryItem, error) {
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var items []models.InventoryItem
	err := q.Order("name ASC, id ASC").Find(&items).Error
	return items, err
}

// CreateItem inserts an inventory item.
func (r *BarRepository) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetItem returns one inventory item, active or not.
func (r *BarRepository) GetItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("item %d", id))
	}
	return &item, nil
}

// SaveItem writes every column of an existing item.
func (r *BarRepository) SaveItem(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// ItemsByID loads the given inventory items keyed by id. Missing ids are simply absent.
func (r *BarRepository) ItemsByID(ctx context.Context, ids []int64) (map[int64]models.InventoryItem, error) {
	out := make(map[int64]models.InventoryItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []models.InventoryItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

// CreateOrder inserts an order.
func (r *BarRepository) CreateOrder(ctx context.Context, o *models.BarOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// ListOrders returns orders matching f, newest first.
func (r *BarRepository) ListOrders(ctx context.Context, f OrderFilter) ([]models.BarOrder, error) {
	q := r.db.WithContext(ctx)
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.IsPaid != nil {
		q = q.Where("is_paid = ?", *f.IsPaid)
	}
	var orders []models.BarOrder
	err := q.Order("timestamp DESC, id DESC").Find(&orders).Error
	return orders, err
}

// ListOrdersBetween returns orders whose business date lies in [from, to], newest first.
func (r *BarRepository) ListOrdersBetween(ctx context.Context, from, to string) ([]models.BarOrder, error) {
	var orders []models.BarOrder
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("timestamp DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// ListByClient returns every order of a client, newest first.
func (r *BarRepository) ListByClient(ctx context.Context, client string) ([]models.BarOrder, error) {
	var orders []models.BarOrder
	err := r.db.WithContext(ctx).
		Where("client_name = ?", client).
		Order("timestamp DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// TogglePaid flips is_paid on an order.
func (r *BarRepository) TogglePaid(ctx context.Context, id int64, client string) (bool, error) {
	var o models.BarOrder
	return togglePaid(ctx, r.db, &o, id, client, fmt.Sprintf("order %d", id), func() (bool, error) {
		return o.IsPaid, nil
	})
}
