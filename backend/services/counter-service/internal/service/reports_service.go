package service

import (
	"context"
	"time"

	"bclub/backend/libs/apperr"
	"bclub/backend/libs/clock"
	"bclub/backend/services/counter-service/internal/models"
	"bclub/backend/services/counter-service/internal/repository"
)

var monthNames = [...]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// ReportRepository sums revenue per category.
type ReportRepository interface {
	Totals(ctx context.Context, c models.Category, day *repository.DayRange) (models.RevenueTotals, error)
	CountActive(ctx context.Context) (int64, error)
}

// ReportSources lists the raw records behind daily and monthly reports.
type ReportSources struct {
	Billiard interface {
		ListStopped(ctx context.Context, f repository.SessionFilter) ([]models.BilliardSession, error)
	}
	Console interface {
		ListSessions(ctx context.Context, date string) ([]models.ConsoleSession, error)
		ListSessionsBetween(ctx context.Context, from, to string) ([]models.ConsoleSession, error)
	}
	Bar interface {
		ListOrders(ctx context.Context, f repository.OrderFilter) ([]models.BarOrder, error)
		ListOrdersBetween(ctx context.Context, from, to string) ([]models.BarOrder, error)
	}
}

// ReportsService builds the dashboard and agenda reports.
type ReportsService struct {
	repo     ReportRepository
	sources  ReportSources
	clock    clock.Clock
	calendar Calendar
	currency string
}

// NewReportsService builds ReportsService.
func NewReportsService(repo ReportRepository, sources ReportSources, clk clock.Clock, cal Calendar, currency string) *ReportsService {
	return &ReportsService{repo: repo, sources: sources, clock: clk, calendar: cal, currency: currency}
}

// Overview returns all-time and today's revenue per category.
func (s *ReportsService) Overview(ctx context.Context) (*models.Overview, error) {
	today := s.calendar.DayOf(s.clock.Now())

	var out models.Overview
	for _, cat := range models.Categories {
		all, err := s.repo.Totals(ctx, cat, nil)
		if err != nil {
			return nil, err
		}
		day, err := s.repo.Totals(ctx, cat, &today)
		if err != nil {
			return nil, err
		}
		co := models.CategoryOverview{
			RevenueTotals:    all,
			FormattedRevenue: FormatAmount(all.Revenue, s.currency),
			Today:            day,
		}
		switch cat {
		case models.CategoryBilliard:
			out.Billiard = co
		case models.CategoryConsole:
			out.Console = co
		case models.CategoryBar:
			out.Bar = co
		}
		out.TotalRevenue += all.Revenue
		out.TodayRevenue += day.Revenue
	}

	active, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	out.ActiveBilliardSessions = active
	out.FormattedTotal = FormatAmount(out.TotalRevenue, s.currency)
	out.FormattedToday = FormatAmount(out.TodayRevenue, s.currency)
	return &out, nil
}

// Daily lists the records of one business day. Running billiard sessions are left out.
func (s *ReportsService) Daily(ctx context.Context, date string) (*models.DailyReport, error) {
	day, err := s.calendar.Day(date)
	if err != nil {
		return nil, err
	}

	billiard, err := s.sources.Billiard.ListStopped(ctx, repository.SessionFilter{From: &day.From, To: &day.To})
	if err != nil {
		return nil, err
	}
	console, err := s.sources.Console.ListSessions(ctx, day.Date)
	if err != nil {
		return nil, err
	}
	bar, err := s.sources.Bar.ListOrders(ctx, repository.OrderFilter{Date: day.Date})
	if err != nil {
		return nil, err
	}

	r := &models.DailyReport{
		Date:     day.Date,
		Billiard: nonNil(billiard),
		Console:  nonNil(console),
		Bar:      nonNil(bar),
	}
	for _, b := range billiard {
		r.BilliardTotal += b.Price
	}
	for _, c := range console {
		r.ConsoleTotal += c.Price
	}
	for _, o := range bar {
		r.BarTotal += o.TotalPrice
	}
	r.GrandTotal = r.BilliardTotal + r.ConsoleTotal + r.BarTotal
	r.FormattedGrandTotal = FormatAmount(r.GrandTotal, s.currency)
	return r, nil
}

// Monthly returns per-day revenue for a calendar month in the venue location.
func (s *ReportsService) Monthly(ctx context.Context, year, month int) (*models.MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, apperr.Validation("month %d out of range 1-12", month)
	}
	if year < 2000 || year > 9999 {
		return nil, apperr.Validation("year %d out of range", year)
	}

	loc := s.calendar.Location()
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)
	days := next.AddDate(0, 0, -1).Day()
	firstDate := first.Format(DateLayout)
	lastDate := next.AddDate(0, 0, -1).Format(DateLayout)

	from, to := first.UTC(), next.UTC()
	billiard, err := s.sources.Billiard.ListStopped(ctx, repository.SessionFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	console, err := s.sources.Console.ListSessionsBetween(ctx, firstDate, lastDate)
	if err != nil {
		return nil, err
	}
	bar, err := s.sources.Bar.ListOrdersBetween(ctx, firstDate, lastDate)
	if err != nil {
		return nil, err
	}

	r := &models.MonthlyReport{
		Year:      year,
		Month:     month,
		MonthName: monthNames[month-1],
		Days:      make([]models.DayRevenue, days),
	}
	index := make(map[string]*models.DayRevenue, days)
	for i := range r.Days {
		d := &r.Days[i]
		d.Day = i + 1
		d.Date = first.AddDate(0, 0, i).Format(DateLayout)
		index[d.Date] = d
	}

	for _, b := range billiard {
		if d := index[s.calendar.DateOf(b.StartTime)]; d != nil {
			d.BilliardRevenue += b.Price
			d.HasData = true
		}
	}
	for _, c := range console {
		if d := index[c.Date]; d != nil {
			d.ConsoleRevenue += c.Price
			d.HasData = true
		}
	}
	for _, o := range bar {
		if d := index[o.Date]; d != nil {
			d.BarRevenue += o.TotalPrice
			d.HasData = true
		}
	}

	for i := range r.Days {
		d := &r.Days[i]
		d.TotalRevenue = d.BilliardRevenue + d.ConsoleRevenue + d.BarRevenue
		d.FormattedTotal = FormatAmount(d.TotalRevenue, s.currency)
		r.Billiard += d.BilliardRevenue
		r.Console += d.ConsoleRevenue
		r.Bar += d.BarRevenue
	}
	r.Total = r.Billiard + r.Console + r.Bar
	r.FormattedTotal = FormatAmount(r.Total, s.currency)
	return r, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
