package models

import (
	"math"
	"time"

	"gorm.io/datatypes"

	"bclub/backend/libs/apperr"
)

// MaxOrderQuantity caps the quantity of a single order line.
const MaxOrderQuantity = 1000

// InventoryItem is a product sold at the bar.
type InventoryItem struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Price    int64  `gorm:"not null" json:"price"`
	Icon     string `gorm:"size:16" json:"icon"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

// LineItem is one row of a bar order. Name and UnitPrice are frozen copies of the inventory.
type LineItem struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
}

// Subtotal returns UnitPrice × Quantity, or a validation error when the product overflows.
func (l LineItem) Subtotal() (int64, error) {
	if l.UnitPrice < 0 || l.Quantity < 0 {
		return 0, apperr.Validation("line %q has a negative price or quantity", l.Name)
	}
	if l.Quantity != 0 && l.UnitPrice > math.MaxInt64/l.Quantity {
		return 0, apperr.Validation("line %q subtotal is out of range", l.Name)
	}
	return l.UnitPrice * l.Quantity, nil
}

// BarOrder is an itemized order.
type BarOrder struct {
	ID         int64                         `gorm:"primaryKey" json:"id"`
	ClientName string                        `gorm:"size:100;not null;index" json:"client_name"`
	LineItems  datatypes.JSONSlice[LineItem] `gorm:"column:items" json:"items"`
	TotalPrice int64                         `gorm:"not null" json:"total_price"`
	Date       string                        `gorm:"size:10;not null;index" json:"date"`
	Timestamp  time.Time                     `gorm:"not null" json:"timestamp"`
	IsPaid     bool                          `gorm:"not null" json:"is_paid"`
}

func (BarOrder) TableName() string { return "bar_orders" }

// OrderTotal sums the line subtotals. Overflow is a validation error, never a wrapped total.
func OrderTotal(items []LineItem) (int64, error) {
	var total int64
	for _, li := range items {
		sub, err := li.Subtotal()
		if err != nil {
			return 0, err
		}
		if total > math.MaxInt64-sub {
			return 0, apperr.Validation("order total is out of range")
		}
		total += sub
	}
	return total, nil
}
