package models

import "time"

// BilliardTable is a metered resource.
type BilliardTable struct {
	ID        string `gorm:"primaryKey;size:8" json:"id"`
	Name      string `gorm:"size:50;not null" json:"name"`
	Color     string `gorm:"size:7" json:"color"`
	IsActive  bool   `gorm:"not null" json:"is_active"`
	SortOrder int    `gorm:"not null" json:"-"`
}

func (BilliardTable) TableName() string { return "billiard_tables" }

// BilliardSession is a metered rental. It is created active and stopped exactly once; price and
// duration are frozen at stop time.
type BilliardSession struct {
	ID              int64      `gorm:"primaryKey" json:"id"`
	TableIdentifier string     `gorm:"size:8;not null;index" json:"table_identifier"`
	ClientName      string     `gorm:"size:100;not null;index" json:"client_name"`
	StartTime       time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds int64      `gorm:"not null" json:"duration_seconds"`
	Price           int64      `gorm:"not null" json:"price"`
	IsPaid          bool       `gorm:"not null" json:"is_paid"`
	IsActive        bool       `gorm:"not null" json:"is_active"`
	CreatedBy       *int64     `json:"created_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (BilliardSession) TableName() string { return "billiard_sessions" }
