package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bclub/backend/libs/clock"
	"bclub/backend/services/counter-service/internal/dbtest"
	"bclub/backend/services/counter-service/internal/models"
	"bclub/backend/services/counter-service/internal/repository"
)

var fixtureStart = time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db    *gorm.DB
	clock *clock.Fake

	sessionRepo *repository.SessionRepository
	consoleRepo *repository.ConsoleRepository
	barRepo     *repository.BarRepository

	settings *SettingsService
	tables   *TablesService
	sessions *SessionsService
	console  *ConsoleService
	bar      *BarService
	ledger   *LedgerService
	payments *PaymentsService
	reports  *ReportsService
}

func newFixture(t *testing.T, store ActiveTableStore) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	clk := clock.NewFake(fixtureStart)
	cal := NewCalendar(time.UTC)
	logger := zap.NewNop()

	f := &fixture{
		db:          db,
		clock:       clk,
		sessionRepo: repository.NewSessionRepository(db),
		consoleRepo: repository.NewConsoleRepository(db),
		barRepo:     repository.NewBarRepository(db),
	}
	ledgerRepo := repository.NewLedgerRepository(db)

	f.settings = NewSettingsService(repository.NewSettingsRepository(db), logger)
	f.tables = NewTablesService(repository.NewTableRepository(db), f.sessionRepo)
	require.NoError(t, f.tables.EnsureDefaults(context.Background(), []string{"A", "B"}))

	cfg := SessionsConfig{
		Repo:     f.sessionRepo,
		Tables:   f.tables,
		Tariffs:  f.settings,
		Store:    store,
		Clock:    clk,
		Calendar: cal,
		Currency: "DT",
		Logger:   logger,
	}
	f.sessions = NewSessionsService(cfg)
	f.console = NewConsoleService(f.consoleRepo, nil, clk, cal, logger)
	f.bar = NewBarService(f.barRepo, nil, clk, cal, logger)
	f.ledger = NewLedgerService(ledgerRepo, ClientRecords{
		Billiard: f.sessionRepo,
		Console:  f.consoleRepo,
		Bar:      f.barRepo,
	}, cal)
	f.payments = NewPaymentsService(ledgerRepo, f.sessionRepo, f.consoleRepo, f.barRepo, nil, logger)
	f.reports = NewReportsService(repository.NewReportRepository(db), ReportSources{
		Billiard: f.sessionRepo,
		Console:  f.consoleRepo,
		Bar:      f.barRepo,
	}, clk, cal, "DT")
	return f
}

// playedSession starts a session on table, lets it run for d and stops it.
func (f *fixture) playedSession(t *testing.T, table, client string, d time.Duration) *models.BilliardSession {
	t.Helper()
	ctx := context.Background()
	s, err := f.sessions.Start(ctx, StartSessionInput{Table: table, ClientName: client})
	require.NoError(t, err)
	f.clock.Advance(d)
	stopped, err := f.sessions.Stop(ctx, s.ID, nil)
	require.NoError(t, err)
	return stopped
}

func (f *fixture) seedGame(t *testing.T) (*models.ConsoleGame, *models.ConsoleTimeOption) {
	t.Helper()
	ctx := context.Background()
	game, err := f.console.CreateGame(ctx, CreateGameInput{Name: "FIFA", Icon: "⚽", PlayerOptions: []int{2, 4}})
	require.NoError(t, err)
	opt, err := f.console.AddTimeOption(ctx, CreateTimeOptionInput{GameID: game.ID, Label: "30 min", Minutes: 30, Players: 2, Price: 3000})
	require.NoError(t, err)
	return game, opt
}

func (f *fixture) seedItem(t *testing.T, name string, price int64) *models.InventoryItem {
	t.Helper()
	item, err := f.bar.CreateItem(context.Background(), CreateItemInput{Name: name, Price: price})
	require.NoError(t, err)
	return item
}
