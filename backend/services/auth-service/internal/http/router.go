package httpserver

import (
	"net/http"

	"bclub/backend/libs/auth"
)

// Routes aggregates handlers for HTTP server.
type Routes struct {
	Login              http.HandlerFunc
	ListUsers          http.HandlerFunc
	CreateUser         http.HandlerFunc
	DeleteUser         http.HandlerFunc
	UpdateCapabilities http.HandlerFunc
	Me                 http.HandlerFunc
	Health             http.HandlerFunc
}

// NewRouter wires all HTTP routes. Everything but login and health requires a bearer token.
func NewRouter(routes Routes, tokens *auth.TokenService) http.Handler {
	authenticated := auth.Authenticate(tokens)
	manageUsers := func(h http.Handler) http.Handler {
		return authenticated(auth.Require(auth.CapUsers)(h))
	}

	mux := http.NewServeMux()
	if routes.Login != nil {
		mux.Handle("POST /auth/login", routes.Login)
	}
	if routes.ListUsers != nil {
		mux.Handle("GET /auth/users", manageUsers(routes.ListUsers))
	}
	if routes.CreateUser != nil {
		mux.Handle("POST /auth/users", manageUsers(routes.CreateUser))
	}
	if routes.DeleteUser != nil {
		mux.Handle("DELETE /auth/users/{id}", manageUsers(routes.DeleteUser))
	}
	if routes.UpdateCapabilities != nil {
		mux.Handle("PATCH /auth/users/{id}/capabilities", manageUsers(routes.UpdateCapabilities))
	}
	if routes.Me != nil {
		mux.Handle("GET /auth/me", authenticated(routes.Me))
	}
	if routes.Health != nil {
		mux.Handle("GET /health", routes.Health)
	}
	return mux
}
