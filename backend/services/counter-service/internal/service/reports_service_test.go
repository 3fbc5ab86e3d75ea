package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bclub/backend/libs/apperr"
)

func TestDailyReport(t *testing.T) {
	f := newFixture(t, nil)
	seedLedger(t, f)
	ctx := context.Background()

	r, err := f.reports.Daily(ctx, "2024-06-10")
	require.NoError(t, err)
	assert.Len(t, r.Billiard, 2, "running session is not reported")
	assert.Equal(t, int64(2925+1500), r.BilliardTotal)
	assert.Equal(t, int64(3000), r.ConsoleTotal)
	assert.Equal(t, int64(7500), r.BarTotal)
	assert.Equal(t, int64(2925+1500+3000+7500), r.GrandTotal)
	assert.Equal(t, "14.925 DT", r.FormattedGrandTotal)

	empty, err := f.reports.Daily(ctx, "2024-06-11")
	require.NoError(t, err)
	assert.Empty(t, empty.Billiard)
	assert.Equal(t, int64(0), empty.GrandTotal)

	_, err = f.reports.Daily(ctx, "yesterday")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMonthlyReport(t *testing.T) {
	f := newFixture(t, nil)
	seedLedger(t, f)
	f.clock.Advance(48 * time.Hour)
	f.playedSession(t, "A", "Nour", 15*time.Minute)
	ctx := context.Background()

	r, err := f.reports.Monthly(ctx, 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, "Juin", r.MonthName)
	require.Len(t, r.Days, 30)

	d10 := r.Days[9]
	assert.Equal(t, "2024-06-10", d10.Date)
	assert.True(t, d10.HasData)
	assert.Equal(t, int64(2925+1500+3000+7500), d10.TotalRevenue)

	assert.False(t, r.Days[10].HasData)
	assert.Equal(t, int64(2250), r.Days[11].BilliardRevenue)
	assert.Equal(t, int64(2925+1500+2250), r.Billiard)
	assert.Equal(t, r.Billiard+r.Console+r.Bar, r.Total)

	feb, err := f.reports.Monthly(ctx, 2024, 2)
	require.NoError(t, err)
	assert.Len(t, feb.Days, 29)
	assert.Equal(t, int64(0), feb.Total)

	for _, m := range []int{0, 13} {
		_, err := f.reports.Monthly(ctx, 2024, m)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
}

func TestOverview(t *testing.T) {
	f := newFixture(t, nil)
	seedLedger(t, f)
	ctx := context.Background()

	o, err := f.reports.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), o.Billiard.Count)
	assert.Equal(t, int64(2925+1500), o.Billiard.Revenue)
	assert.Equal(t, int64(2925+1500), o.Billiard.Today.Revenue)
	assert.Equal(t, int64(1), o.ActiveBilliardSessions)
	assert.Equal(t, int64(2925+1500+3000+7500), o.TotalRevenue)
	assert.Equal(t, o.TotalRevenue, o.TodayRevenue)

	f.clock.Advance(24 * time.Hour)
	o, err = f.reports.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), o.TodayRevenue)
	assert.Equal(t, "14.925 DT", o.FormattedTotal)
}
