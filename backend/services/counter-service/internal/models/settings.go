package models

import (
	"time"

	"bclub/backend/libs/apperr"
)

// SettingsID is the primary key of the settings singleton row.
const SettingsID = 1

// Tariff configures metered billing. Rates are millimes per minute, floors are millimes.
type Tariff struct {
	BaseRatePerMinute    int64 `gorm:"column:rate_base;not null" json:"base_rate_per_minute"`
	ReducedRatePerMinute int64 `gorm:"column:rate_reduced;not null" json:"reduced_rate_per_minute"`
	ThresholdMinutes     int64 `gorm:"column:threshold_minutes;not null" json:"threshold_minutes"`
	FloorLow             int64 `gorm:"column:floor_low;not null" json:"floor_low"`
	FloorMid             int64 `gorm:"column:floor_mid;not null" json:"floor_mid"`
}

// DefaultTariff is the tariff a fresh venue starts with.
func DefaultTariff() Tariff {
	return Tariff{
		BaseRatePerMinute:    150,
		ReducedRatePerMinute: 135,
		ThresholdMinutes:     15,
		FloorLow:             1000,
		FloorMid:             1500,
	}
}

// Validate rejects tariffs the pricing engine cannot bill with.
func (t Tariff) Validate() error {
	switch {
	case t.BaseRatePerMinute < 0:
		return apperr.Configuration("base rate must not be negative (got %d)", t.BaseRatePerMinute)
	case t.ReducedRatePerMinute < 0:
		return apperr.Configuration("reduced rate must not be negative (got %d)", t.ReducedRatePerMinute)
	case t.ThresholdMinutes < 0:
		return apperr.Configuration("threshold must not be negative (got %d)", t.ThresholdMinutes)
	case t.FloorLow < 0:
		return apperr.Configuration("low floor must not be negative (got %d)", t.FloorLow)
	case t.FloorMid < 0:
		return apperr.Configuration("mid floor must not be negative (got %d)", t.FloorMid)
	}
	return nil
}

// Settings is the singleton venue configuration row.
type Settings struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ClubName   string    `gorm:"size:100;not null" json:"club_name"`
	LogoURL    string    `gorm:"size:255" json:"logo_url"`
	ThemeColor string    `gorm:"size:7" json:"theme_color"`
	Tariff     Tariff    `gorm:"embedded" json:"tariff"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Settings) TableName() string { return "app_settings" }

// DefaultSettings returns the row created on first access.
func DefaultSettings() Settings {
	return Settings{
		ID:         SettingsID,
		ClubName:   "B-CLUB",
		ThemeColor: "#eab308",
		Tariff:     DefaultTariff(),
	}
}
