package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"bclub/backend/libs/apperr"
	"bclub/backend/services/counter-service/internal/models"
)

// LedgerRepository aggregates and bulk-updates records per client.
type LedgerRepository interface {
	AggregateByClient(ctx context.Context, exclude []string) (map[models.Category][]models.ClientAggregate, error)
	MarkAllPaid(ctx context.Context, client string) (models.BulkResult, error)
	DeleteAllPaid(ctx context.Context, client string) (models.BulkResult, error)
}

// ClientRecords lists the raw records of one client per category.
type ClientRecords struct {
	Billiard interface {
		ListByClient(ctx context.Context, client string) ([]models.BilliardSession, error)
	}
	Console interface {
		ListByClient(ctx context.Context, client string) ([]models.ConsoleSession, error)
	}
	Bar interface {
		ListByClient(ctx context.Context, client string) ([]models.BarOrder, error)
	}
}

// LedgerService reconciles what each client played, ordered and paid.
type LedgerService struct {
	repo     LedgerRepository
	records  ClientRecords
	calendar Calendar
}

// NewLedgerService builds LedgerService.
func NewLedgerService(repo LedgerRepository, records ClientRecords, cal Calendar) *LedgerService {
	return &LedgerService{repo: repo, records: records, calendar: cal}
}

// BuildClientList returns every named client, most visits first and alphabetical within ties.
// Anonymous sentinels are left out.
func (s *LedgerService) BuildClientList(ctx context.Context) ([]models.ClientSummary, error) {
	aggs, err := s.repo.AggregateByClient(ctx, models.AnonymousNames)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*models.ClientSummary)
	for _, cat := range models.Categories {
		for _, row := range aggs[cat] {
			name := strings.TrimSpace(row.ClientName)
			if name == "" || IsAnonymous(name) {
				continue
			}
			sum, ok := byName[name]
			if !ok {
				sum = &models.ClientSummary{Name: name}
				byName[name] = sum
			}
			categoryTotals(sum, cat).Add(row.Totals())
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]models.ClientSummary, 0, len(names))
	for _, name := range names {
		sum := byName[name]
		finishSummary(sum)
		if sum.TotalVisits == 0 {
			continue
		}
		out = append(out, *sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalVisits > out[j].TotalVisits
	})
	return out, nil
}

// BuildClientHistory returns every record of a client plus a merged, newest-first timeline.
// A name without records yields an empty history.
func (s *LedgerService) BuildClientHistory(ctx context.Context, name string) (*models.ClientHistory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("client name is required")
	}

	billiard, err := s.records.Billiard.ListByClient(ctx, name)
	if err != nil {
		return nil, err
	}
	console, err := s.records.Console.ListByClient(ctx, name)
	if err != nil {
		return nil, err
	}
	bar, err := s.records.Bar.ListByClient(ctx, name)
	if err != nil {
		return nil, err
	}

	h := &models.ClientHistory{
		ClientName: name,
		Billiard:   billiard,
		Console:    console,
		Bar:        bar,
		Entries:    make([]models.HistoryEntry, 0, len(billiard)+len(console)+len(bar)),
		Stats:      models.ClientSummary{Name: name},
	}
	if h.Billiard == nil {
		h.Billiard = []models.BilliardSession{}
	}
	if h.Console == nil {
		h.Console = []models.ConsoleSession{}
	}
	if h.Bar == nil {
		h.Bar = []models.BarOrder{}
	}

	for _, b := range billiard {
		h.Stats.Billiard.Add(recordTotals(b.Price, b.IsPaid, b.IsActive))
		h.Entries = append(h.Entries, s.entry(b.ID, models.CategoryBilliard, b.StartTime.UTC(),
			billiardLabel(b), b.Price, b.IsPaid, b.IsActive))
	}
	for _, c := range console {
		h.Stats.Console.Add(recordTotals(c.Price, c.IsPaid, false))
		h.Entries = append(h.Entries, s.entry(c.ID, models.CategoryConsole, c.Timestamp.UTC(),
			fmt.Sprintf("%s, %d joueurs, %d min", c.Kind, c.Players, c.DurationMinutes), c.Price, c.IsPaid, false))
	}
	for _, o := range bar {
		h.Stats.Bar.Add(recordTotals(o.TotalPrice, o.IsPaid, false))
		h.Entries = append(h.Entries, s.entry(o.ID, models.CategoryBar, o.Timestamp.UTC(),
			barLabel(o), o.TotalPrice, o.IsPaid, false))
	}
	finishSummary(&h.Stats)
	SortHistory(h.Entries)
	return h, nil
}

// SortHistory orders entries newest first, then billiard before console before bar, then by
// descending id.
func SortHistory(entries []models.HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		if a.Category.Rank() != b.Category.Rank() {
			return a.Category.Rank() < b.Category.Rank()
		}
		return a.ID > b.ID
	})
}

func (s *LedgerService) entry(id int64, cat models.Category, ts time.Time, label string, price int64, paid, active bool) models.HistoryEntry {
	local := ts.In(s.calendar.Location())
	return models.HistoryEntry{
		ID:        id,
		Category:  cat,
		Timestamp: ts.UTC(),
		Date:      local.Format(DateLayout),
		Time:      local.Format("15:04"),
		Label:     label,
		Price:     price,
		IsPaid:    paid,
		IsActive:  active,
	}
}

// recordTotals is the contribution of one record. Running sessions count as a visit but are not
// yet owed.
func recordTotals(price int64, paid, pending bool) models.CategoryTotals {
	t := models.CategoryTotals{Count: 1, Total: price}
	switch {
	case paid:
		t.Paid = price
	case !pending:
		t.Unpaid = price
		t.UnpaidCount = 1
	}
	return t
}

func categoryTotals(sum *models.ClientSummary, cat models.Category) *models.CategoryTotals {
	switch cat {
	case models.CategoryConsole:
		return &sum.Console
	case models.CategoryBar:
		return &sum.Bar
	default:
		return &sum.Billiard
	}
}

func finishSummary(sum *models.ClientSummary) {
	var all models.CategoryTotals
	all.Add(sum.Billiard)
	all.Add(sum.Console)
	all.Add(sum.Bar)
	sum.TotalVisits = all.Count
	sum.TotalSpent = all.Total
	sum.TotalPaid = all.Paid
	sum.TotalUnpaid = all.Unpaid
	sum.UnpaidCount = all.UnpaidCount
	sum.HasUnpaid = all.UnpaidCount > 0
}

func billiardLabel(b models.BilliardSession) string {
	if b.IsActive {
		return fmt.Sprintf("Table %s, en cours", b.TableIdentifier)
	}
	return fmt.Sprintf("Table %s, %s", b.TableIdentifier, FormatDuration(b.DurationSeconds))
}

func barLabel(o models.BarOrder) string {
	parts := make([]string, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		parts = append(parts, fmt.Sprintf("%dx %s", li.Quantity, li.Name))
	}
	return strings.Join(parts, ", ")
}
