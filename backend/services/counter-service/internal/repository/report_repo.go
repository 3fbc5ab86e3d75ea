package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"bclub/backend/services/counter-service/internal/models"
)

// DayRange is one business day: its date label and the UTC instants bounding it.
type DayRange struct {
	Date string
	From time.Time
	To   time.Time
}

// ReportRepository computes revenue sums.
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns repository.
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Totals sums the billable records of a category, over all time or one day when day is set.
// Running billiard sessions are never counted.
func (r *ReportRepository) Totals(ctx context.Context, c models.Category, day *DayRange) (models.RevenueTotals, error) {
	var (
		q      *gorm.DB
		amount string
	)
	db := r.db.WithContext(ctx)
	switch c {
	case models.CategoryBilliard:
		amount = "price"
		q = db.Model(&models.BilliardSession{}).Where("is_active = ?", false)
		if day != nil {
			q = q.Where("start_time >= ? AND start_time < ?", day.From.UTC(), day.To.UTC())
		}
	case models.CategoryConsole:
		amount = "price"
		q = db.Model(&models.ConsoleSession{})
		if day != nil {
			q = q.Where("date = ?", day.Date)
		}
	case models.CategoryBar:
		amount = "total_price"
		q = db.Model(&models.BarOrder{})
		if day != nil {
			q = q.Where("date = ?", day.Date)
		}
	default:
		return models.RevenueTotals{}, fmt.Errorf("totals: unknown category %q", c)
	}

	var out models.RevenueTotals
	err := q.Select(fmt.Sprintf("COUNT(*) AS count, CAST(COALESCE(SUM(%s), 0) AS BIGINT) AS revenue", amount)).
		Scan(&out).Error
	return out, err
}

// CountActive returns the number of running billiard sessions.
func (r *ReportRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.BilliardSession{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}
