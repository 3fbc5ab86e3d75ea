package handlers

import (
	"net/http"

	"bclub/backend/services/counter-service/internal/models"
	"bclub/backend/services/counter-service/internal/service"
)

// NewGetSettingsHandler handles GET /api/settings.
func NewGetSettingsHandler(settings *service.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := settings.Get(r.Context())
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// NewUpdateSettingsHandler handles PUT /api/settings. Omitted fields keep their value.
func NewUpdateSettingsHandler(settings *service.SettingsService) http.HandlerFunc {
	type request struct {
		ClubName   *string        `json:"club_name"`
		LogoURL    *string        `json:"logo_url"`
		ThemeColor *string        `json:"theme_color"`
		Tariff     *models.Tariff `json:"tariff"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		s, err := settings.Update(r.Context(), service.SettingsUpdate{
			ClubName:   req.ClubName,
			LogoURL:    req.LogoURL,
			ThemeColor: req.ThemeColor,
			Tariff:     req.Tariff,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}
