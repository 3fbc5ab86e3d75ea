package models

import "time"

// Category tags a ledger record with the activity it was billed for.
type Category string

const (
	CategoryBilliard Category = "billiard"
	CategoryConsole  Category = "console"
	CategoryBar      Category = "bar"
)

// Categories lists the ledger categories in their fixed display and tie-break order.
var Categories = []Category{CategoryBilliard, CategoryConsole, CategoryBar}

// Rank is the position of c in Categories, or len(Categories) for unknown values.
func (c Category) Rank() int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return len(Categories)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool { return c.Rank() < len(Categories) }

// Anonymous client names. Records under these names are never aggregated into a client ledger.
const (
	AnonymousClient    = "Anonyme"
	AnonymousClientAlt = "Anonymous"
)

// AnonymousNames lists the sentinel names excluded from client lists.
var AnonymousNames = []string{AnonymousClient, AnonymousClientAlt}

// CategoryTotals holds one client's figures for one category.
type CategoryTotals struct {
	Count       int64 `json:"count"`
	Total       int64 `json:"total"`
	Paid        int64 `json:"paid"`
	Unpaid      int64 `json:"unpaid"`
	UnpaidCount int64 `json:"unpaid_count"`
}

// Add accumulates o into t.
func (t *CategoryTotals) Add(o CategoryTotals) {
	t.Count += o.Count
	t.Total += o.Total
	t.Paid += o.Paid
	t.Unpaid += o.Unpaid
	t.UnpaidCount += o.UnpaidCount
}

// ClientAggregate is one grouped row of the ledger query.
type ClientAggregate struct {
	ClientName  string
	Count       int64
	Total       int64
	Paid        int64
	Unpaid      int64
	UnpaidCount int64
}

// Totals drops the client name.
func (a ClientAggregate) Totals() CategoryTotals {
	return CategoryTotals{Count: a.Count, Total: a.Total, Paid: a.Paid, Unpaid: a.Unpaid, UnpaidCount: a.UnpaidCount}
}

// ClientSummary is one row of the client list.
type ClientSummary struct {
	Name        string         `json:"name"`
	Billiard    CategoryTotals `json:"billiard"`
	Console     CategoryTotals `json:"console"`
	Bar         CategoryTotals `json:"bar"`
	TotalVisits int64          `json:"total_visits"`
	TotalSpent  int64          `json:"total_spent"`
	TotalPaid   int64          `json:"total_paid"`
	TotalUnpaid int64          `json:"total_unpaid"`
	UnpaidCount int64          `json:"unpaid_count"`
	HasUnpaid   bool           `json:"has_unpaid"`
}

// HistoryEntry is one record in a client's merged history.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	Category  Category  `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Label     string    `json:"label"`
	Price     int64     `json:"price"`
	IsPaid    bool      `json:"is_paid"`
	IsActive  bool      `json:"is_active,omitempty"`
}

// ClientHistory is the full ledger view of one client.
type ClientHistory struct {
	ClientName string            `json:"client_name"`
	Billiard   []BilliardSession `json:"billiard_sessions"`
	Console    []ConsoleSession  `json:"console_sessions"`
	Bar        []BarOrder        `json:"bar_orders"`
	Entries    []HistoryEntry    `json:"all_history"`
	Stats      ClientSummary     `json:"stats"`
}

// BulkResult reports per-category row counts of a bulk ledger operation.
type BulkResult struct {
	Billiard int64 `json:"billiard"`
	Console  int64 `json:"console"`
	Bar      int64 `json:"bar"`
}

// Total sums all categories.
func (r BulkResult) Total() int64 { return r.Billiard + r.Console + r.Bar }
