package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"bclub/backend/libs/apperr"
	"bclub/backend/libs/clock"
	"bclub/backend/services/counter-service/internal/metrics"
	"bclub/backend/services/counter-service/internal/models"
	"bclub/backend/services/counter-service/internal/repository"
)

// BarRepository is the storage contract for inventory and orders.
type BarRepository interface {
	ListItems(ctx context.Context, activeOnly bool) ([]models.InventoryItem, error)
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	GetItem(ctx context.Context, id int64) (*models.InventoryItem, error)
	SaveItem(ctx context.Context, item *models.InventoryItem) error
	ItemsByID(ctx context.Context, ids []int64) (map[int64]models.InventoryItem, error)
	CreateOrder(ctx context.Context, o *models.BarOrder) error
	ListOrders(ctx context.Context, f repository.OrderFilter) ([]models.BarOrder, error)
}

// CreateItemInput describes an inventory item.
type CreateItemInput struct {
	Name  string
	Price int64
	Icon  string
}

// UpdateItemInput is a partial update of an inventory item. Nil fields keep their value.
type UpdateItemInput struct {
	Name     *string
	Price    *int64
	Icon     *string
	IsActive *bool
}

// OrderLine is one requested line of an order.
type OrderLine struct {
	ItemID   int64
	Quantity int64
}

// CreateOrderInput describes an order to record.
type CreateOrderInput struct {
	ClientName string
	Items      []OrderLine
}

// BarService manages inventory and itemized orders.
type BarService struct {
	repo     BarRepository
	metrics  *metrics.Metrics
	clock    clock.Clock
	calendar Calendar
	logger   *zap.Logger
}

// NewBarService builds BarService.
func NewBarService(repo BarRepository, m *metrics.Metrics, clk clock.Clock, cal Calendar, logger *zap.Logger) *BarService {
	return &BarService{repo: repo, metrics: m, clock: clk, calendar: cal, logger: logger}
}

// ListItems returns inventory.
func (s *BarService) ListItems(ctx context.Context, activeOnly bool) ([]models.InventoryItem, error) {
	return s.repo.ListItems(ctx, activeOnly)
}

// CreateItem adds an inventory item.
func (s *BarService) CreateItem(ctx context.Context, in CreateItemInput) (*models.InventoryItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("item name is required")
	}
	if in.Price < 0 {
		return nil, apperr.Validation("price must not be negative")
	}
	item := &models.InventoryItem{Name: name, Price: in.Price, Icon: strings.TrimSpace(in.Icon), IsActive: true}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem edits an item. Orders already recorded keep their frozen names and prices.
func (s *BarService) UpdateItem(ctx context.Context, id int64, in UpdateItemInput) (*models.InventoryItem, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("item name is required")
		}
		item.Name = name
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperr.Validation("price must not be negative")
		}
		item.Price = *in.Price
	}
	if in.Icon != nil {
		item.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("inventory item updated",
		zap.Int64("item_id", item.ID),
		zap.Int64("price", item.Price),
		zap.Bool("is_active", item.IsActive),
	)
	return item, nil
}

// DeactivateItem withdraws an item from sale. It stays listed with ?all=true and in past orders.
func (s *BarService) DeactivateItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	inactive := false
	return s.UpdateItem(ctx, id, UpdateItemInput{IsActive: &inactive})
}

// CreateOrder records an order. Names and unit prices are frozen from the inventory.
func (s *BarService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.BarOrder, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validation("order has no items")
	}
	ids := make([]int64, 0, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity < 1 || line.Quantity > models.MaxOrderQuantity {
			return nil, apperr.Validation("quantity of item %d must be between 1 and %d", line.ItemID, models.MaxOrderQuantity)
		}
		ids = append(ids, line.ItemID)
	}

	inventory, err := s.repo.ItemsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]models.LineItem, 0, len(in.Items))
	for _, line := range in.Items {
		item, ok := inventory[line.ItemID]
		if !ok {
			return nil, apperr.Validation("unknown item %d", line.ItemID)
		}
		if !item.IsActive {
			return nil, apperr.Validation("item %q is not available", item.Name)
		}
		lines = append(lines, models.LineItem{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  line.Quantity,
		})
	}

	total, err := models.OrderTotal(lines)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	order := &models.BarOrder{
		ClientName: NormalizeClientName(in.ClientName),
		LineItems:  lines,
		TotalPrice: total,
		Date:       s.calendar.DateOf(now),
		Timestamp:  now,
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.Revenue(string(models.CategoryBar), order.TotalPrice)
	s.logger.Info("bar order recorded",
		zap.Int64("order_id", order.ID),
		zap.String("client", order.ClientName),
		zap.Int("lines", len(lines)),
		zap.Int64("total", order.TotalPrice),
	)
	return order, nil
}

// ListOrders returns orders matching f.
func (s *BarService) ListOrders(ctx context.Context, f repository.OrderFilter) ([]models.BarOrder, error) {
	if f.Date != "" {
		if _, err := s.calendar.Day(f.Date); err != nil {
			return nil, err
		}
	}
	return s.repo.ListOrders(ctx, f)
}
