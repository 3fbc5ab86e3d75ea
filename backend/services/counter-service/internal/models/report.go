package models

// RevenueTotals counts records and sums their amounts.
type RevenueTotals struct {
	Count   int64 `json:"count"`
	Revenue int64 `json:"revenue"`
}

// CategoryOverview is one category of the overall statistics.
type CategoryOverview struct {
	RevenueTotals
	FormattedRevenue string        `json:"formatted_revenue"`
	Today            RevenueTotals `json:"today"`
}

// Overview is the dashboard summary.
type Overview struct {
	Billiard               CategoryOverview `json:"billiard"`
	Console                CategoryOverview `json:"console"`
	Bar                    CategoryOverview `json:"bar"`
	ActiveBilliardSessions int64            `json:"active_billiard_sessions"`
	TotalRevenue           int64            `json:"total_revenue"`
	FormattedTotal         string           `json:"formatted_total"`
	TodayRevenue           int64            `json:"today_revenue"`
	FormattedToday         string           `json:"formatted_today"`
}

// DailyReport lists the records of one business day with per-category totals.
type DailyReport struct {
	Date                string            `json:"date"`
	Billiard            []BilliardSession `json:"billiard_sessions"`
	Console             []ConsoleSession  `json:"console_sessions"`
	Bar                 []BarOrder        `json:"bar_orders"`
	BilliardTotal       int64             `json:"billiard_total"`
	ConsoleTotal        int64             `json:"console_total"`
	BarTotal            int64             `json:"bar_total"`
	GrandTotal          int64             `json:"grand_total"`
	FormattedGrandTotal string            `json:"formatted_grand_total"`
}

// DayRevenue is one day of a monthly report.
type DayRevenue struct {
	Date            string `json:"date"`
	Day             int    `json:"day"`
	BilliardRevenue int64  `json:"billiard_revenue"`
	ConsoleRevenue  int64  `json:"console_revenue"`
	BarRevenue      int64  `json:"bar_revenue"`
	TotalRevenue    int64  `json:"total_revenue"`
	FormattedTotal  string `json:"formatted_total"`
	HasData         bool   `json:"has_data"`
}

// MonthlyReport lists per-day revenue of a month with month totals.
type MonthlyReport struct {
	Year           int          `json:"year"`
	Month          int          `json:"month"`
	MonthName      string       `json:"month_name"`
	Days           []DayRevenue `json:"days"`
	Billiard       int64        `json:"billiard_total"`
	Console        int64        `json:"console_total"`
	Bar            int64        `json:"bar_total"`
	Total          int64        `json:"total"`
	FormattedTotal string       `json:"formatted_total"`
}
