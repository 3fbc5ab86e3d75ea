package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bclub/backend/libs/apperr"
	"bclub/backend/services/counter-service/internal/models"
)

// seedLedger gives Sami two billiard sessions, a running one and a bar order, Amira one console
// session, and leaves an anonymous order.
func seedLedger(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	_, opt := f.seedGame(t)
	cola := f.seedItem(t, "Coca", 2500)

	f.playedSession(t, "A", "Sami", 20*time.Minute) // 2925
	f.playedSession(t, "A", "Sami", 8*time.Minute)  // 1500
	_, err := f.sessions.Start(ctx, StartSessionInput{Table: "B", ClientName: "Sami"})
	require.NoError(t, err)

	_, err = f.bar.CreateOrder(ctx, CreateOrderInput{ClientName: "Sami", Items: []OrderLine{{ItemID: cola.ID, Quantity: 2}}})
	require.NoError(t, err)
	_, err = f.bar.CreateOrder(ctx, CreateOrderInput{Items: []OrderLine{{ItemID: cola.ID, Quantity: 1}}})
	require.NoError(t, err)

	_, err = f.console.CreateSession(ctx, CreateConsoleSessionInput{GameID: opt.GameID, TimeOptionID: opt.ID, Players: 2, ClientName: "Amira"})
	require.NoError(t, err)
}

func TestBuildClientList(t *testing.T) {
	f := newFixture(t, nil)
	seedLedger(t, f)

	list, err := f.ledger.BuildClientList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	sami := list[0]
	assert.Equal(t, "Sami", sami.Name)
	assert.Equal(t, int64(3), sami.Billiard.Count)
	assert.Equal(t, int64(2925+1500), sami.Billiard.Unpaid)
	assert.Equal(t, int64(2), sami.Billiard.UnpaidCount, "running session is not owed yet")
	assert.Equal(t, int64(1), sami.Bar.Count)
	assert.Equal(t, int64(5000), sami.Bar.Total)
	assert.Equal(t, int64(4), sami.TotalVisits)
	assert.Equal(t, int64(2925+1500+5000), sami.TotalUnpaid)
	assert.Equal(t, int64(3), sami.UnpaidCount)
	assert.True(t, sami.HasUnpaid)

	amira := list[1]
	assert.Equal(t, "Amira", amira.Name)
	assert.Equal(t, int64(1), amira.Console.Count)
	assert.Equal(t, int64(3000), amira.TotalSpent)

	for _, c := range list {
		assert.False(t, IsAnonymous(c.Name))
	}
}

func TestBuildClientListTiesAreAlphabetical(t *testing.T) {
	f := newFixture(t, nil)
	item := f.seedItem(t, "Eau", 1000)
	ctx := context.Background()

	for _, name := range []string{"Zied", "Anonymous", "Bilel", "Anonyme", "Mehdi"} {
		_, err := f.bar.CreateOrder(ctx, CreateOrderInput{ClientName: name, Items: []OrderLine{{ItemID: item.ID, Quantity: 1}}})
		require.NoError(t, err)
	}

	list, err := f.ledger.BuildClientList(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Bilel", "Mehdi", "Zied"}, names)
}

func TestBuildClientHistory(t *testing.T) {
	f := newFixture(t, nil)
	seedLedger(t, f)
	ctx := context.Background()

	h, err := f.ledger.BuildClientHistory(ctx, "Sami")
	require.NoError(t, err)
	assert.Len(t, h.Billiard, 3)
	assert.Len(t, h.Bar, 1)
	assert.Empty(t, h.Console)
	require.Len(t, h.Entries, 4)

	// The running session and the bar order share the latest timestamp; billiard sorts first.
	assert.Equal(t, models.CategoryBilliard, h.Entries[0].Category)
	assert.True(t, h.Entries[0].IsActive)
	assert.Equal(t, models.CategoryBar, h.Entries[1].Category)
	assert.Equal(t, "2x Coca", h.Entries[1].Label)
	for i := 1; i < len(h.Entries); i++ {
		assert.False(t, h.Entries[i].Timestamp.After(h.Entries[i-1].Timestamp))
	}

	assert.Equal(t, int64(4), h.Stats.TotalVisits)
	assert.Equal(t, int64(2925+1500+5000), h.Stats.TotalUnpaid)

	empty, err := f.ledger.BuildClientHistory(ctx, "Nobody")
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)
	assert.Equal(t, int64(0), empty.Stats.TotalVisits)

	_, err = f.ledger.BuildClientHistory(ctx, "  ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSortHistoryTieBreak(t *testing.T) {
	ts := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	entries := []models.HistoryEntry{
		{ID: 1, Category: models.CategoryBar, Timestamp: ts},
		{ID: 7, Category: models.CategoryConsole, Timestamp: ts},
		{ID: 2, Category: models.CategoryBilliard, Timestamp: ts.Add(-time.Minute)},
		{ID: 3, Category: models.CategoryBar, Timestamp: ts},
		{ID: 4, Category: models.CategoryBilliard, Timestamp: ts},
	}
	SortHistory(entries)

	got := make([]int64, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.ID)
	}
	assert.Equal(t, []int64{4, 7, 3, 1, 2}, got)
}
