package httpserver

import (
	"net/http"

	"bclub/backend/libs/auth"
)

// Routes aggregates handlers for HTTP server. Nil handlers are not mounted.
type Routes struct {
	Health  http.HandlerFunc
	Metrics http.Handler
	Live    http.Handler

	ListTables      http.HandlerFunc
	UpdateTable     http.HandlerFunc
	DeactivateTable http.HandlerFunc

	StartSession         http.HandlerFunc
	ManualSession        http.HandlerFunc
	ActiveSessions       http.HandlerFunc
	SessionHistory       http.HandlerFunc
	GetSession           http.HandlerFunc
	StopSession          http.HandlerFunc
	ToggleSessionPayment http.HandlerFunc

	ListGames            http.HandlerFunc
	CreateGame           http.HandlerFunc
	UpdateGame           http.HandlerFunc
	DeactivateGame       http.HandlerFunc
	AddTimeOption        http.HandlerFunc
	ListConsoleSessions  http.HandlerFunc
	CreateConsoleSession http.HandlerFunc
	ToggleConsolePayment http.HandlerFunc

	ListItems          http.HandlerFunc
	CreateItem         http.HandlerFunc
	UpdateItem         http.HandlerFunc
	DeactivateItem     http.HandlerFunc
	ListOrders         http.HandlerFunc
	CreateOrder        http.HandlerFunc
	ToggleOrderPayment http.HandlerFunc

	ListClients         http.HandlerFunc
	ClientHistory       http.HandlerFunc
	ClientTogglePayment http.HandlerFunc
	PayAll              http.HandlerFunc
	DeletePaid          http.HandlerFunc

	ListRegisteredClients  http.HandlerFunc
	RegisterClient         http.HandlerFunc
	UpdateRegisteredClient http.HandlerFunc

	GetSettings    http.HandlerFunc
	UpdateSettings http.HandlerFunc

	Stats         http.HandlerFunc
	DailyReport   http.HandlerFunc
	MonthlyReport http.HandlerFunc
}

type route struct {
	pattern string
	handler http.Handler
	cap     auth.Capability
}

// NewRouter wires all HTTP routes. Health and metrics are open, everything else needs a bearer
// token, and each area needs its capability. Any authenticated user may read tables and
// settings and follow the live feed.
func NewRouter(routes Routes, tokens *auth.TokenService) http.Handler {
	authenticated := auth.Authenticate(tokens)

	mux := http.NewServeMux()
	open := func(pattern string, h http.Handler) {
		if h != nil && !isNilFunc(h) {
			mux.Handle(pattern, h)
		}
	}
	open("GET /health", routes.Health)
	open("GET /metrics", routes.Metrics)

	signedIn := []route{
		{"GET /ws/live", routes.Live, ""},
		{"GET /api/tables", routes.ListTables, ""},
		{"GET /api/settings", routes.GetSettings, ""},
	}
	guarded := []route{
		{"POST /api/billiard/sessions/start", routes.StartSession, auth.CapBilliard},
		{"POST /api/billiard/sessions/manual", routes.ManualSession, auth.CapBilliard},
		{"GET /api/billiard/sessions/active", routes.ActiveSessions, auth.CapBilliard},
		{"GET /api/billiard/sessions/history", routes.SessionHistory, auth.CapBilliard},
		{"GET /api/billiard/sessions/{id}", routes.GetSession, auth.CapBilliard},
		{"POST /api/billiard/sessions/{id}/stop", routes.StopSession, auth.CapBilliard},
		{"POST /api/billiard/sessions/{id}/toggle-payment", routes.ToggleSessionPayment, auth.CapBilliard},

		{"GET /api/console/games", routes.ListGames, auth.CapConsole},
		{"POST /api/console/games", routes.CreateGame, auth.CapConsole},
		{"PATCH /api/console/games/{id}", routes.UpdateGame, auth.CapConsole},
		{"DELETE /api/console/games/{id}", routes.DeactivateGame, auth.CapConsole},
		{"POST /api/console/games/{id}/options", routes.AddTimeOption, auth.CapConsole},
		{"GET /api/console/sessions", routes.ListConsoleSessions, auth.CapConsole},
		{"POST /api/console/sessions", routes.CreateConsoleSession, auth.CapConsole},
		{"POST /api/console/sessions/{id}/toggle-payment", routes.ToggleConsolePayment, auth.CapConsole},

		{"GET /api/bar/items", routes.ListItems, auth.CapBar},
		{"POST /api/bar/items", routes.CreateItem, auth.CapBar},
		{"PATCH /api/bar/items/{id}", routes.UpdateItem, auth.CapBar},
		{"DELETE /api/bar/items/{id}", routes.DeactivateItem, auth.CapBar},
		{"GET /api/bar/orders", routes.ListOrders, auth.CapBar},
		{"POST /api/bar/orders", routes.CreateOrder, auth.CapBar},
		{"POST /api/bar/orders/{id}/toggle-payment", routes.ToggleOrderPayment, auth.CapBar},

		{"GET /api/clients", routes.ListClients, auth.CapClients},
		{"GET /api/clients/{name}/history", routes.ClientHistory, auth.CapClients},
		{"POST /api/clients/{name}/{kind}/{id}/toggle-payment", routes.ClientTogglePayment, auth.CapClients},
		{"POST /api/clients/{name}/pay-all", routes.PayAll, auth.CapClients},
		{"DELETE /api/clients/{name}/paid", routes.DeletePaid, auth.CapClients},
		{"GET /api/client-registry", routes.ListRegisteredClients, auth.CapClients},
		{"POST /api/client-registry", routes.RegisterClient, auth.CapClients},
		{"PATCH /api/client-registry/{id}", routes.UpdateRegisteredClient, auth.CapClients},

		{"PUT /api/settings", routes.UpdateSettings, auth.CapSettings},
		{"PATCH /api/tables/{id}", routes.UpdateTable, auth.CapSettings},
		{"DELETE /api/tables/{id}", routes.DeactivateTable, auth.CapSettings},

		{"GET /api/stats", routes.Stats, auth.CapAnalytics},
		{"GET /api/agenda/daily/{date}", routes.DailyReport, auth.CapAgenda},
		{"GET /api/agenda/monthly/{year}/{month}", routes.MonthlyReport, auth.CapAgenda},
	}

	for _, rt := range signedIn {
		if rt.handler == nil || isNilFunc(rt.handler) {
			continue
		}
		mux.Handle(rt.pattern, authenticated(rt.handler))
	}
	for _, rt := range guarded {
		if rt.handler == nil || isNilFunc(rt.handler) {
			continue
		}
		mux.Handle(rt.pattern, authenticated(auth.Require(rt.cap)(rt.handler)))
	}
	return mux
}

// isNilFunc catches a nil http.HandlerFunc stored in the http.Handler interface.
func isNilFunc(h http.Handler) bool {
	f, ok := h.(http.HandlerFunc)
	return ok && f == nil
}
