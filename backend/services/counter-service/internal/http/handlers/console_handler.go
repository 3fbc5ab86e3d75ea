package handlers

import (
	"net/http"

	"bclub/backend/services/counter-service/internal/models"
	"bclub/backend/services/counter-service/internal/service"
)

type consoleSessionPayload struct {
	models.ConsoleSession
	FormattedPrice string `json:"formatted_price"`
}

func toConsoleSessionPayload(s models.ConsoleSession, currency string) consoleSessionPayload {
	return consoleSessionPayload{ConsoleSession: s, FormattedPrice: service.FormatAmount(s.Price, currency)}
}

// NewListGamesHandler handles GET /api/console/games. Inactive games are included with ?all=true.
func NewListGamesHandler(console *service.ConsoleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		only, err := activeOnly(r)
		if err != nil {
			writeAppError(w, err)
			return
		}
		games, err := console.ListGames(r.Context(), only)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"games": games})
	}
}

// NewCreateGameHandler handles POST /api/console/games.
func NewCreateGameHandler(console *service.ConsoleService) http.HandlerFunc {
	type request struct {
		Name          string `json:"name"`
		Icon          string `json:"icon"`
		PlayerOptions []int  `json:"player_options"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		game, err := console.CreateGame(r.Context(), service.CreateGameInput{
			Name:          req.Name,
			Icon:          req.Icon,
			PlayerOptions: req.PlayerOptions,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, game)
	}
}

// NewUpdateGameHandler handles PATCH /api/console/games/{id}. Omitted fields keep their value.
func NewUpdateGameHandler(console *service.ConsoleService) http.HandlerFunc {
	type request struct {
		Name          *string `json:"name"`
		Icon          *string `json:"icon"`
		PlayerOptions *[]int  `json:"player_options"`
		IsActive      *bool   `json:"is_active"`
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
		game, err := console.UpdateGame(r.Context(), id, service.UpdateGameInput{
			Name:          req.Name,
			Icon:          req.Icon,
			PlayerOptions: req.PlayerOptions,
			IsActive:      req.IsActive,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, game)
	}
}

// NewDeactivateGameHandler handles DELETE /api/console/games/{id}.
func NewDeactivateGameHandler(console *service.ConsoleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeAppError(w, err)
			return
		}
		game, err := console.DeactivateGame(r.Context(), id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, game)
	}
}

// NewAddTimeOptionHandler handles POST /api/console/games/{id}/options.
func NewAddTimeOptionHandler(console *service.ConsoleService) http.HandlerFunc {
	type request struct {
		Label   string `json:"label"`
		Minutes int    `json:"minutes"`
		Players int    `json:"players"`
		Price   int64  `json:"price"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := pathID(r, "id")
		if err != nil {
			writeAppError(w, err)
			return
		}
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		opt, err := console.AddTimeOption(r.Context(), service.CreateTimeOptionInput{
			GameID:  gameID,
			Label:   req.Label,
			Minutes: req.Minutes,
			Players: req.Players,
			Price:   req.Price,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, opt)
	}
}

// NewCreateConsoleSessionHandler handles POST /api/console/sessions.
func NewCreateConsoleSessionHandler(console *service.ConsoleService, currency string) http.HandlerFunc {
	type request struct {
		GameID       int64  `json:"game_id"`
		TimeOptionID int64  `json:"time_option_id"`
		Players      int    `json:"players"`
		ClientName   string `json:"client_name"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		session, err := console.CreateSession(r.Context(), service.CreateConsoleSessionInput{
			GameID:       req.GameID,
			TimeOptionID: req.TimeOptionID,
			Players:      req.Players,
			ClientName:   req.ClientName,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toConsoleSessionPayload(*session, currency))
	}
}

// NewListConsoleSessionsHandler handles GET /api/console/sessions?date=. An empty date means
// today.
func NewListConsoleSessionsHandler(console *service.ConsoleService, currency string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := console.ListSessions(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			writeAppError(w, err)
			return
		}
		out := make([]consoleSessionPayload, 0, len(list))
		for _, s := range list {
			out = append(out, toConsoleSessionPayload(s, currency))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": out})
	}
}
