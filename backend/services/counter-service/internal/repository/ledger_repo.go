package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bclub/backend/services/counter-service/internal/models"
)

// ledgerSource describes how one category is stored. pending marks rows that are neither paid
// nor billable yet (running billiard sessions).
type ledgerSource struct {
	category models.Category
	model    func() interface{}
	table    string
	amount   string
	pending  string
}

var ledgerSources = []ledgerSource{
	{models.CategoryBilliard, func() interface{} { return &models.BilliardSession{} }, "billiard_sessions", "price", "is_active"},
	{models.CategoryConsole, func() interface{} { return &models.ConsoleSession{} }, "console_sessions", "price", "1 = 0"},
	{models.CategoryBar, func() interface{} { return &models.BarOrder{} }, "bar_orders", "total_price", "1 = 0"},
}

// LedgerRepository runs the client aggregations and bulk payment operations.
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository returns repository.
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// AggregateByClient groups every category by client name, skipping the excluded names.
// Rows are ordered by client name.
func (r *LedgerRepository) AggregateByClient(ctx context.Context, exclude []string) (map[models.Category][]models.ClientAggregate, error) {
	out := make(map[models.Category][]models.ClientAggregate, len(ledgerSources))
	for _, src := range ledgerSources {
		query := fmt.Sprintf(`
			SELECT client_name,
			       COUNT(*) AS count,
			       CAST(COALESCE(SUM(%[1]s), 0) AS BIGINT) AS total,
			       CAST(COALESCE(SUM(CASE WHEN is_paid THEN %[1]s ELSE 0 END), 0) AS BIGINT) AS paid,
			       CAST(COALESCE(SUM(CASE WHEN is_paid OR %[2]s THEN 0 ELSE %[1]s END), 0) AS BIGINT) AS unpaid,
			       CAST(COALESCE(SUM(CASE WHEN is_paid OR %[2]s THEN 0 ELSE 1 END), 0) AS BIGINT) AS unpaid_count
			FROM %[3]s
			WHERE client_name NOT IN ?
			GROUP BY client_name
			ORDER BY client_name ASC
		`, src.amount, src.pending, src.table)

		var rows []models.ClientAggregate
		if err := r.db.WithContext(ctx).Raw(query, exclude).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", src.category, err)
		}
		out[src.category] = rows
	}
	return out, nil
}

// MarkAllPaid sets is_paid on every unpaid, billable record of client in one transaction.
func (r *LedgerRepository) MarkAllPaid(ctx context.Context, client string) (models.BulkResult, error) {
	var res models.BulkResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, src := range ledgerSources {
			q := tx.Model(src.model()).
				Where("client_name = ? AND is_paid = ?", client, false).
				Where(fmt.Sprintf("NOT (%s)", src.pending)).
				Update("is_paid", true)
			if q.Error != nil {
				return fmt.Errorf("mark %s paid: %w", src.category, q.Error)
			}
			addBulk(&res, src.category, q.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return models.BulkResult{}, err
	}
	return res, nil
}

// DeleteAllPaid hard-deletes every paid record of client in one transaction.
func (r *LedgerRepository) DeleteAllPaid(ctx context.Context, client string) (models.BulkResult, error) {
	var res models.BulkResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, src := range ledgerSources {
			q := tx.Where("client_name = ? AND is_paid = ?", client, true).Delete(src.model())
			if q.Error != nil {
				return fmt.Errorf("delete paid %s: %w", src.category, q.Error)
			}
			addBulk(&res, src.category, q.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return models.BulkResult{}, err
	}
	return res, nil
}

func addBulk(res *models.BulkResult, c models.Category, n int64) {
	switch c {
	case models.CategoryBilliard:
		res.Billiard += n
	case models.CategoryConsole:
		res.Console += n
	case models.CategoryBar:
		res.Bar += n
	}
}
