package handlers

import (
	"net/http"
	"strings"

	"bclub/backend/services/counter-service/internal/models"
	"bclub/backend/services/counter-service/internal/service"
)

// NewListTablesHandler handles GET /api/tables.
func NewListTablesHandler(tables *service.TablesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := tables.List(r.Context())
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"tables": list})
	}
}

// NewUpdateTableHandler handles PATCH /api/tables/{id}. Omitted fields keep their value.
func NewUpdateTableHandler(tables *service.TablesService) http.HandlerFunc {
	type request struct {
		Name     *string `json:"name"`
		Color    *string `json:"color"`
		IsActive *bool   `json:"is_active"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		t, err := tables.Update(r.Context(), r.PathValue("id"), service.UpdateTableInput{
			Name:     req.Name,
			Color:    req.Color,
			IsActive: req.IsActive,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// NewDeactivateTableHandler handles DELETE /api/tables/{id}. Sessions played on it are kept.
func NewDeactivateTableHandler(tables *service.TablesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := tables.Deactivate(r.Context(), r.PathValue("id"))
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// NewStartSessionHandler handles POST /api/billiard/sessions/start. A start_time backdates the
// session.
func NewStartSessionHandler(sessions *service.SessionsService) http.HandlerFunc {
	type request struct {
		Table      string `json:"table"`
		ClientName string `json:"client_name"`
		StartTime  string `json:"start_time"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}

		in := service.StartSessionInput{Table: req.Table, ClientName: req.ClientName, CreatedBy: actingUser(r)}
		var (
			session *models.BilliardSession
			err     error
		)
		if strings.TrimSpace(req.StartTime) == "" {
			session, err = sessions.Start(r.Context(), in)
		} else {
			start, perr := sessions.ParseStart(req.StartTime)
			if perr != nil {
				writeAppError(w, perr)
				return
			}
			session, err = sessions.StartAt(r.Context(), in, start)
		}
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, session)
	}
}

// NewManualSessionHandler handles POST /api/billiard/sessions/manual.
func NewManualSessionHandler(sessions *service.SessionsService) http.HandlerFunc {
	type request struct {
		Table      string `json:"table"`
		ClientName string `json:"client_name"`
		StartTime  string `json:"start_time"`
		EndTime    string `json:"end_time"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		start, err := sessions.ParseTimestamp(req.StartTime)
		if err != nil {
			writeAppError(w, err)
			return
		}
		end, err := sessions.ParseTimestamp(req.EndTime)
		if err != nil {
			writeAppError(w, err)
			return
		}

		session, err := sessions.RecordManual(r.Context(), service.ManualSessionInput{
			Table:      req.Table,
			ClientName: req.ClientName,
			Start:      start,
			End:        end,
			CreatedBy:  actingUser(r),
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, session)
	}
}

// NewActiveSessionsHandler handles GET /api/billiard/sessions/active.
func NewActiveSessionsHandler(sessions *service.SessionsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := sessions.ListActive(r.Context())
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": list})
	}
}

// NewSessionHistoryHandler handles GET /api/billiard/sessions/history?table=&from=&to=&is_paid=.
func NewSessionHistoryHandler(sessions *service.SessionsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		isPaid, err := queryBool(r, "is_paid")
		if err != nil {
			writeAppError(w, err)
			return
		}
		list, err := sessions.History(r.Context(), service.HistoryFilter{
			Table:  q.Get("table"),
			From:   q.Get("from"),
			To:     q.Get("to"),
			IsPaid: isPaid,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": list})
	}
}

// NewGetSessionHandler handles GET /api/billiard/sessions/{id}.
func NewGetSessionHandler(sessions *service.SessionsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeAppError(w, err)
			return
		}
		view, err := sessions.Get(r.Context(), id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// NewStopSessionHandler handles POST /api/billiard/sessions/{id}/stop. The body may rename the
// client.
func NewStopSessionHandler(sessions *service.SessionsService) http.HandlerFunc {
	type request struct {
		ClientName *string `json:"client_name"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeAppError(w, err)
			return
		}
		var req request
		if err := decodeOptionalJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		if _, err := sessions.Stop(r.Context(), id, req.ClientName); err != nil {
			writeAppError(w, err)
			return
		}
		view, err := sessions.Get(r.Context(), id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
