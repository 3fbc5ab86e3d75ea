package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bclub/backend/libs/auth"
	"bclub/backend/libs/clock"
	libdb "bclub/backend/libs/db"
	"bclub/backend/libs/httpmw"
	libredis "bclub/backend/libs/redis"
	"bclub/backend/libs/server"
	appconfig "bclub/backend/services/counter-service/internal/config"
	counterdb "bclub/backend/services/counter-service/internal/db"
	"bclub/backend/services/counter-service/internal/http"
	"bclub/backend/services/counter-service/internal/http/handlers"
	"bclub/backend/services/counter-service/internal/live"
	"bclub/backend/services/counter-service/internal/metrics"
	"bclub/backend/services/counter-service/internal/models"
	redisstore "bclub/backend/services/counter-service/internal/redis"
	"bclub/backend/services/counter-service/internal/repository"
	"bclub/backend/services/counter-service/internal/service"
)

// App wires dependencies for the counter service.
type App struct {
	server *server.Server
	hub    *live.Hub
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	gdb, sqlDB, err := counterdb.Open(cfg.Database.DSN, libdb.PoolOptions{MaxOpenConns: cfg.Database.MaxOpenConns}, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := counterdb.Migrate(ctx, gdb); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	a := &App{db: sqlDB, logger: logger}

	var store service.ActiveTableStore
	if cfg.RedisEnabled() {
		client, err := libredis.NewClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		store = redisstore.NewStore(client, cfg.RedisTTL())
	} else {
		logger.Info("redis not configured, table claims rely on the database only")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		a.Close()
		return nil, err
	}

	clk := clock.Real{}
	cal := service.NewCalendar(cfg.Location())
	currency := cfg.Venue.Currency

	tableRepo := repository.NewTableRepository(gdb)
	sessionRepo := repository.NewSessionRepository(gdb)
	consoleRepo := repository.NewConsoleRepository(gdb)
	barRepo := repository.NewBarRepository(gdb)
	ledgerRepo := repository.NewLedgerRepository(gdb)
	clientRepo := repository.NewClientRepository(gdb)

	settingsSvc := service.NewSettingsService(repository.NewSettingsRepository(gdb), logger)
	tablesSvc := service.NewTablesService(tableRepo, sessionRepo)
	if err := tablesSvc.EnsureDefaults(ctx, cfg.Venue.Tables); err != nil {
		a.Close()
		return nil, fmt.Errorf("seed tables: %w", err)
	}
	sessionsSvc := service.NewSessionsService(service.SessionsConfig{
		Repo:     sessionRepo,
		Tables:   tablesSvc,
		Tariffs:  settingsSvc,
		Store:    store,
		Metrics:  m,
		Clock:    clk,
		Calendar: cal,
		Currency: currency,
		Logger:   logger,
	})
	consoleSvc := service.NewConsoleService(consoleRepo, m, clk, cal, logger)
	barSvc := service.NewBarService(barRepo, m, clk, cal, logger)
	ledgerSvc := service.NewLedgerService(ledgerRepo, service.ClientRecords{
		Billiard: sessionRepo,
		Console:  consoleRepo,
		Bar:      barRepo,
	}, cal)
	paymentsSvc := service.NewPaymentsService(ledgerRepo, sessionRepo, consoleRepo, barRepo, m, logger)
	registrySvc := service.NewClientRegistryService(clientRepo, logger)
	reportsSvc := service.NewReportsService(repository.NewReportRepository(gdb), service.ReportSources{
		Billiard: sessionRepo,
		Console:  consoleRepo,
		Bar:      barRepo,
	}, clk, cal, currency)

	a.hub = live.NewHub(sessionsSvc, cfg.Live.Interval, logger)

	routes := httpserver.Routes{
		Health:  handlers.NewHealthHandler(sqlDB),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Live:    live.NewHandler(a.hub, cfg.Live.WriteTimeout, logger),

		ListTables:      handlers.NewListTablesHandler(tablesSvc),
		UpdateTable:     handlers.NewUpdateTableHandler(tablesSvc),
		DeactivateTable: handlers.NewDeactivateTableHandler(tablesSvc),

		StartSession:         handlers.NewStartSessionHandler(sessionsSvc),
		ManualSession:        handlers.NewManualSessionHandler(sessionsSvc),
		ActiveSessions:       handlers.NewActiveSessionsHandler(sessionsSvc),
		SessionHistory:       handlers.NewSessionHistoryHandler(sessionsSvc),
		GetSession:           handlers.NewGetSessionHandler(sessionsSvc),
		StopSession:          handlers.NewStopSessionHandler(sessionsSvc),
		ToggleSessionPayment: handlers.NewTogglePaymentHandler(paymentsSvc, models.CategoryBilliard),

		ListGames:            handlers.NewListGamesHandler(consoleSvc),
		CreateGame:           handlers.NewCreateGameHandler(consoleSvc),
		UpdateGame:           handlers.NewUpdateGameHandler(consoleSvc),
		DeactivateGame:       handlers.NewDeactivateGameHandler(consoleSvc),
		AddTimeOption:        handlers.NewAddTimeOptionHandler(consoleSvc),
		ListConsoleSessions:  handlers.NewListConsoleSessionsHandler(consoleSvc, currency),
		CreateConsoleSession: handlers.NewCreateConsoleSessionHandler(consoleSvc, currency),
		ToggleConsolePayment: handlers.NewTogglePaymentHandler(paymentsSvc, models.CategoryConsole),

		ListItems:          handlers.NewListItemsHandler(barSvc),
		CreateItem:         handlers.NewCreateItemHandler(barSvc),
		UpdateItem:         handlers.NewUpdateItemHandler(barSvc),
		DeactivateItem:     handlers.NewDeactivateItemHandler(barSvc),
		ListOrders:         handlers.NewListOrdersHandler(barSvc, currency),
		CreateOrder:        handlers.NewCreateOrderHandler(barSvc, currency),
		ToggleOrderPayment: handlers.NewTogglePaymentHandler(paymentsSvc, models.CategoryBar),

		ListClients:         handlers.NewListClientsHandler(ledgerSvc),
		ClientHistory:       handlers.NewClientHistoryHandler(ledgerSvc),
		ClientTogglePayment: handlers.NewClientTogglePaymentHandler(paymentsSvc),
		PayAll:              handlers.NewPayAllHandler(paymentsSvc),
		DeletePaid:          handlers.NewDeletePaidHandler(paymentsSvc),

		ListRegisteredClients:  handlers.NewListRegisteredClientsHandler(registrySvc),
		RegisterClient:         handlers.NewRegisterClientHandler(registrySvc),
		UpdateRegisteredClient: handlers.NewUpdateRegisteredClientHandler(registrySvc),

		GetSettings:    handlers.NewGetSettingsHandler(settingsSvc),
		UpdateSettings: handlers.NewUpdateSettingsHandler(settingsSvc),

		Stats:         handlers.NewStatsHandler(reportsSvc),
		DailyReport:   handlers.NewDailyReportHandler(reportsSvc),
		MonthlyReport: handlers.NewMonthlyReportHandler(reportsSvc),
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, 0)
	router := httpserver.NewRouter(routes, tokens)
	// The live feed holds its connection open, so writes are bounded per message instead.
	a.server = server.New(cfg.HTTPAddress(), router, logger, server.Options{WriteTimeout: -1},
		httpmw.RequestID,
		httpmw.Logging(logger),
		httpmw.Recovery(logger),
	)
	return a, nil
}

// Run starts the live hub and serves HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
