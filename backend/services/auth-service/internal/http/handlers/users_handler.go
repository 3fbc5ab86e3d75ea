package handlers

import (
	"net/http"
	"strconv"
	"time"

	"bclub/backend/libs/apperr"
	"bclub/backend/libs/auth"
	"bclub/backend/services/auth-service/internal/models"
	"bclub/backend/services/auth-service/internal/service"
)

type userPayload struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	Capabilities []string  `json:"capabilities"`
	CreatedAt    time.Time `json:"created_at"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:           u.ID,
		Username:     u.Username,
		Role:         u.Role,
		Capabilities: auth.ForRole(u.Role, u.Capabilities).Names(),
		CreatedAt:    u.CreatedAt,
	}
}

// NewCreateUserHandler handles POST /auth/users.
func NewCreateUserHandler(authService *service.AuthService) http.HandlerFunc {
	type request struct {
		Username     string   `json:"username"`
		Password     string   `json:"password"`
		Role         string   `json:"role"`
		Capabilities []string `json:"capabilities"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		user, err := authService.CreateUser(r.Context(), service.CreateUserInput{
			Username:     req.Username,
			Password:     req.Password,
			Role:         req.Role,
			Capabilities: req.Capabilities,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toUserPayload(user))
	}
}

// NewListUsersHandler handles GET /auth/users.
func NewListUsersHandler(authService *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := authService.ListUsers(r.Context())
		if err != nil {
			writeAppError(w, err)
			return
		}
		out := make([]userPayload, 0, len(users))
		for _, u := range users {
			out = append(out, toUserPayload(u))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"users": out})
	}
}

// NewDeleteUserHandler handles DELETE /auth/users/{id}.
func NewDeleteUserHandler(authService *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userID(r)
		if err != nil {
			writeAppError(w, err)
			return
		}
		if err := authService.DeleteUser(r.Context(), id); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// NewUpdateCapabilitiesHandler handles PATCH /auth/users/{id}/capabilities.
func NewUpdateCapabilitiesHandler(authService *service.AuthService) http.HandlerFunc {
	type request struct {
		Capabilities []string `json:"capabilities"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userID(r)
		if err != nil {
			writeAppError(w, err)
			return
		}
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		user, err := authService.UpdateCapabilities(r.Context(), id, req.Capabilities)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserPayload(user))
	}
}

// NewMeHandler handles GET /auth/me.
func NewMeHandler(authService *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeAppError(w, apperr.Unauthorized("authentication required"))
			return
		}
		user, err := authService.Me(r.Context(), principal.UserID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserPayload(user))
	}
}

func userID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid user id")
	}
	return id, nil
}
