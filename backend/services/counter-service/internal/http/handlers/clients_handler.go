package handlers

import (
	"net/http"

	"bclub/backend/services/counter-service/internal/service"
)

// NewListClientsHandler handles GET /api/clients.
func NewListClientsHandler(ledger *service.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clients, err := ledger.BuildClientList(r.Context())
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"clients": clients})
	}
}

// NewClientHistoryHandler handles GET /api/clients/{name}/history.
func NewClientHistoryHandler(ledger *service.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := ledger.BuildClientHistory(r.Context(), r.PathValue("name"))
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}
