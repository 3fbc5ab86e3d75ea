package handlers

import (
	"net/http"

	"bclub/backend/services/counter-service/internal/service"
)

// NewListRegisteredClientsHandler handles GET /api/client-registry?is_active=.
func NewListRegisteredClientsHandler(registry *service.ClientRegistryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isActive, err := queryBool(r, "is_active")
		if err != nil {
			writeAppError(w, err)
			return
		}
		clients, err := registry.List(r.Context(), isActive)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"clients": clients})
	}
}

// NewRegisterClientHandler handles POST /api/client-registry.
func NewRegisterClientHandler(registry *service.ClientRegistryService) http.HandlerFunc {
	type request struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
		Notes string `json:"notes"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		c, err := registry.Create(r.Context(), service.CreateClientInput{
			Name:  req.Name,
			Phone: req.Phone,
			Email: req.Email,
			Notes: req.Notes,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// NewUpdateRegisteredClientHandler handles PATCH /api/client-registry/{id}. Setting is_active to
// false retires the client.
func NewUpdateRegisteredClientHandler(registry *service.ClientRegistryService) http.HandlerFunc {
	type request struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		Email    *string `json:"email"`
		Notes    *string `json:"notes"`
		IsActive *bool   `json:"is_active"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeAppError(w, err)
			return
		}
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		c, err := registry.Update(r.Context(), id, service.UpdateClientInput{
			Name:     req.Name,
			Phone:    req.Phone,
			Email:    req.Email,
			Notes:    req.Notes,
			IsActive: req.IsActive,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}
