package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bclub/backend/libs/auth"
	"bclub/backend/libs/clock"
	"bclub/backend/services/counter-service/internal/dbtest"
	httpserver "bclub/backend/services/counter-service/internal/http"
	"bclub/backend/services/counter-service/internal/http/handlers"
	"bclub/backend/services/counter-service/internal/metrics"
	"bclub/backend/services/counter-service/internal/models"
	"bclub/backend/services/counter-service/internal/repository"
	"bclub/backend/services/counter-service/internal/service"
)

type testServer struct {
	router http.Handler
	clock  *clock.Fake
	tokens *auth.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.Open(t)
	clk := clock.NewFake(time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC))
	cal := service.NewCalendar(time.UTC)
	logger := zap.NewNop()

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	require.NoError(t, err)

	sessionRepo := repository.NewSessionRepository(db)
	consoleRepo := repository.NewConsoleRepository(db)
	barRepo := repository.NewBarRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	settingsSvc := service.NewSettingsService(repository.NewSettingsRepository(db), logger)
	tablesSvc := service.NewTablesService(repository.NewTableRepository(db), sessionRepo)
	require.NoError(t, tablesSvc.EnsureDefaults(context.Background(), []string{"A", "B"}))
	sessionsSvc := service.NewSessionsService(service.SessionsConfig{
		Repo:     sessionRepo,
		Tables:   tablesSvc,
		Tariffs:  settingsSvc,
		Metrics:  m,
		Clock:    clk,
		Calendar: cal,
		Currency: "DT",
		Logger:   logger,
	})
	barSvc := service.NewBarService(barRepo, m, clk, cal, logger)
	ledgerSvc := service.NewLedgerService(ledgerRepo, service.ClientRecords{
		Billiard: sessionRepo,
		Console:  consoleRepo,
		Bar:      barRepo,
	}, cal)
	paymentsSvc := service.NewPaymentsService(ledgerRepo, sessionRepo, consoleRepo, barRepo, m, logger)
	reportsSvc := service.NewReportsService(repository.NewReportRepository(db), service.ReportSources{
		Billiard: sessionRepo,
		Console:  consoleRepo,
		Bar:      barRepo,
	}, clk, cal, "DT")

	registrySvc := service.NewClientRegistryService(repository.NewClientRepository(db), logger)

	tokens := auth.NewTokenService("counter-secret", time.Hour)
	router := httpserver.NewRouter(httpserver.Routes{
		Health:                 handlers.NewHealthHandler(nil),
		Metrics:                promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ListTables:             handlers.NewListTablesHandler(tablesSvc),
		UpdateTable:            handlers.NewUpdateTableHandler(tablesSvc),
		DeactivateTable:        handlers.NewDeactivateTableHandler(tablesSvc),
		StartSession:           handlers.NewStartSessionHandler(sessionsSvc),
		GetSession:             handlers.NewGetSessionHandler(sessionsSvc),
		StopSession:            handlers.NewStopSessionHandler(sessionsSvc),
		ToggleSessionPayment:   handlers.NewTogglePaymentHandler(paymentsSvc, models.CategoryBilliard),
		ListItems:              handlers.NewListItemsHandler(barSvc),
		CreateItem:             handlers.NewCreateItemHandler(barSvc),
		UpdateItem:             handlers.NewUpdateItemHandler(barSvc),
		DeactivateItem:         handlers.NewDeactivateItemHandler(barSvc),
		CreateOrder:            handlers.NewCreateOrderHandler(barSvc, "DT"),
		ListClients:            handlers.NewListClientsHandler(ledgerSvc),
		ClientHistory:          handlers.NewClientHistoryHandler(ledgerSvc),
		ClientTogglePayment:    handlers.NewClientTogglePaymentHandler(paymentsSvc),
		PayAll:                 handlers.NewPayAllHandler(paymentsSvc),
		DeletePaid:             handlers.NewDeletePaidHandler(paymentsSvc),
		ListRegisteredClients:  handlers.NewListRegisteredClientsHandler(registrySvc),
		RegisterClient:         handlers.NewRegisterClientHandler(registrySvc),
		UpdateRegisteredClient: handlers.NewUpdateRegisteredClientHandler(registrySvc),
		GetSettings:            handlers.NewGetSettingsHandler(settingsSvc),
		UpdateSettings:         handlers.NewUpdateSettingsHandler(settingsSvc),
		Stats:                  handlers.NewStatsHandler(reportsSvc),
		MonthlyReport:          handlers.NewMonthlyReportHandler(reportsSvc),
	}, tokens)
	return &testServer{router: router, clock: clk, tokens: tokens}
}

func (s *testServer) token(t *testing.T, caps ...auth.Capability) string {
	t.Helper()
	set, err := auth.NewCapabilitySet(caps...)
	require.NoError(t, err)
	tok, err := s.tokens.GenerateToken(auth.Principal{UserID: 7, Username: "staff", Role: auth.RoleStaff, Capabilities: set})
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, token, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func TestHealthAndAuthentication(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "", http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, "", http.MethodGet, "/api/tables", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, "not-a-token", http.MethodGet, "/api/tables", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, s.token(t), http.MethodGet, "/api/tables", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"A"`)
	assert.Contains(t, rec.Body.String(), `"name":"Table B"`)
}

func TestCapabilitiesGuardAreas(t *testing.T) {
	s := newTestServer(t)
	barOnly := s.token(t, auth.CapBar)

	rec := s.do(t, barOnly, http.MethodPost, "/api/billiard/sessions/start", `{"table":"A"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, barOnly, http.MethodPut, "/api/settings", `{"club_name":"X"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, barOnly, http.MethodGet, "/api/settings", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, barOnly, http.MethodGet, "/api/bar/items", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBilliardSessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, auth.CapBilliard)

	rec := s.do(t, tok, http.MethodPost, "/api/billiard/sessions/start", `{"table":"a","client_name":"Sami"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var started models.BilliardSession
	decode(t, rec, &started)
	assert.Equal(t, "A", started.TableIdentifier)
	assert.True(t, started.IsActive)
	require.NotNil(t, started.CreatedBy)
	assert.Equal(t, int64(7), *started.CreatedBy)

	rec = s.do(t, tok, http.MethodPost, "/api/billiard/sessions/start", `{"table":"A"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"conflict"`)

	s.clock.Advance(20 * time.Minute)
	path := "/api/billiard/sessions/" + jsonID(started.ID)

	rec = s.do(t, tok, http.MethodPost, path+"/stop", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stopped service.SessionView
	decode(t, rec, &stopped)
	assert.False(t, stopped.IsActive)
	assert.Equal(t, int64(2925), stopped.Price)
	assert.Equal(t, "2.925 DT", stopped.FormattedPrice)
	assert.Equal(t, "00:20:00", stopped.FormattedDuration)

	rec = s.do(t, tok, http.MethodPost, path+"/stop", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"invalid_state"`)

	rec = s.do(t, tok, http.MethodPost, path+"/toggle-payment", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":`+jsonID(started.ID)+`,"type":"billiard","is_paid":true}`, rec.Body.String())

	rec = s.do(t, tok, http.MethodGet, "/api/billiard/sessions/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, tok, http.MethodGet, "/api/billiard/sessions/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartWithClockTime(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, auth.CapBilliard)

	rec := s.do(t, tok, http.MethodPost, "/api/billiard/sessions/start", `{"table":"B","start_time":"09:40"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var started models.BilliardSession
	decode(t, rec, &started)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 40, 0, 0, time.UTC), started.StartTime.UTC())
	assert.Equal(t, models.AnonymousClient, started.ClientName)

	rec = s.do(t, tok, http.MethodPost, "/api/billiard/sessions/start", `{"table":"A","start_time":"9h40"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, tok, http.MethodPost, "/api/billiard/sessions/start", `{"table":"A","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"validation"`)
}

func TestClientLedgerEndpoints(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, auth.CapBilliard, auth.CapBar, auth.CapClients)

	rec := s.do(t, tok, http.MethodPost, "/api/bar/items", `{"name":"Coca","price":2500}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item models.InventoryItem
	decode(t, rec, &item)

	rec = s.do(t, tok, http.MethodPost, "/api/bar/orders", `{"client_name":"Sami","items":[{"item_id":`+jsonID(item.ID)+`,"quantity":2}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"formatted_total":"5.000 DT"`)
	var order struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &order)

	rec = s.do(t, tok, http.MethodGet, "/api/clients", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Clients []models.ClientSummary `json:"clients"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Clients, 1)
	assert.Equal(t, "Sami", list.Clients[0].Name)
	assert.Equal(t, int64(5000), list.Clients[0].TotalUnpaid)

	rec = s.do(t, tok, http.MethodGet, "/api/clients/Sami/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"label":"2x Coca"`)

	rec = s.do(t, tok, http.MethodPost, "/api/clients/Sami/snooker/1/toggle-payment", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, tok, http.MethodPost, "/api/clients/%20/bar/"+jsonID(order.ID)+"/toggle-payment", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"validation"`)

	rec = s.do(t, tok, http.MethodPost, "/api/clients/Sami/pay-all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"client_name":"Sami","updated":{"billiard":0,"console":0,"bar":1},"total":1}`, rec.Body.String())

	rec = s.do(t, tok, http.MethodDelete, "/api/clients/Sami/paid", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"client_name":"Sami","updated":{"billiard":0,"console":0,"bar":1},"total":1}`, rec.Body.String())

	rec = s.do(t, tok, http.MethodGet, "/api/clients", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clients":[]}`, rec.Body.String())
}

func TestCatalogMaintenance(t *testing.T) {
	s := newTestServer(t)
	bar := s.token(t, auth.CapBar)
	admin := s.token(t, auth.CapSettings, auth.CapBilliard)

	rec := s.do(t, bar, http.MethodPost, "/api/bar/items", `{"name":"Coca","price":2500}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item models.InventoryItem
	decode(t, rec, &item)
	path := "/api/bar/items/" + jsonID(item.ID)

	rec = s.do(t, bar, http.MethodPatch, path, `{"price":3000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"price":3000`)

	rec = s.do(t, admin, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(t, bar, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_active":false`)

	rec = s.do(t, bar, http.MethodGet, "/api/bar/items", "")
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
	rec = s.do(t, bar, http.MethodGet, "/api/bar/items?all=true", "")
	assert.Contains(t, rec.Body.String(), `"name":"Coca"`)

	rec = s.do(t, bar, http.MethodPost, "/api/bar/orders", `{"items":[{"item_id":`+jsonID(item.ID)+`,"quantity":1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, bar, http.MethodPatch, "/api/bar/items/999", `{"price":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, bar, http.MethodPatch, "/api/tables/b", `{"name":"Snooker"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(t, admin, http.MethodPatch, "/api/tables/b", `{"name":"Snooker","color":"#112233"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"Snooker"`)

	rec = s.do(t, admin, http.MethodPost, "/api/billiard/sessions/start", `{"table":"A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, admin, http.MethodDelete, "/api/tables/A", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"invalid_state"`)

	rec = s.do(t, admin, http.MethodDelete, "/api/tables/B", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, admin, http.MethodPost, "/api/billiard/sessions/start", `{"table":"B"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClientRegistryEndpoints(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, auth.CapClients)

	rec := s.do(t, s.token(t, auth.CapBar), http.MethodGet, "/api/client-registry", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, tok, http.MethodPost, "/api/client-registry", `{"name":"Sami","phone":"20 111 222","email":"sami@example.tn"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sami models.Client
	decode(t, rec, &sami)
	assert.True(t, sami.IsActive)

	rec = s.do(t, tok, http.MethodPost, "/api/client-registry", `{"name":"Sami"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, tok, http.MethodPatch, "/api/client-registry/"+jsonID(sami.ID), `{"is_active":false,"notes":"moved"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"notes":"moved"`)

	rec = s.do(t, tok, http.MethodGet, "/api/client-registry?is_active=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clients":[]}`, rec.Body.String())

	rec = s.do(t, tok, http.MethodGet, "/api/client-registry", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Sami"`)

	rec = s.do(t, tok, http.MethodGet, "/api/client-registry?is_active=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsAndReports(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, auth.CapSettings, auth.CapAnalytics, auth.CapAgenda)

	rec := s.do(t, admin, http.MethodPut, "/api/settings", `{"theme_color":"yellow"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, admin, http.MethodPut, "/api/settings", `{"club_name":"B-CLUB Lac","tariff":{"base_rate_per_minute":200,"reduced_rate_per_minute":180,"threshold_minutes":15,"floor_low":1000,"floor_mid":1500}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var settings models.Settings
	decode(t, rec, &settings)
	assert.Equal(t, "B-CLUB Lac", settings.ClubName)
	assert.Equal(t, int64(200), settings.Tariff.BaseRatePerMinute)
	assert.Equal(t, "#eab308", settings.ThemeColor)

	rec = s.do(t, admin, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_revenue":0`)

	rec = s.do(t, admin, http.MethodGet, "/api/agenda/monthly/2024/13", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, admin, http.MethodGet, "/api/agenda/monthly/2024/june", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, admin, http.MethodGet, "/api/agenda/monthly/2024/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var month models.MonthlyReport
	decode(t, rec, &month)
	assert.Len(t, month.Days, 29)
	assert.Equal(t, "Février", month.MonthName)
}

func TestMetricsExposeCounters(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, s.token(t, auth.CapBilliard), http.MethodPost, "/api/billiard/sessions/start", `{"table":"A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, "", http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `bclub_billiard_sessions_started_total{table="A"} 1`)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
