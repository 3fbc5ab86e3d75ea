package models

import "time"

// Client is a registered customer. Ledger records refer to clients by name only, so the registry
// is a directory and never owns sessions or orders.
type Client struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Phone     string    `gorm:"size:20;not null;default:''" json:"phone"`
	Email     string    `gorm:"size:254;not null;default:''" json:"email"`
	Notes     string    `gorm:"type:text;not null;default:''" json:"notes"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (Client) TableName() string { return "clients" }
