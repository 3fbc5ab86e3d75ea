package handlers

import (
	"net/http"
	"strings"

	"bclub/backend/libs/apperr"
	"bclub/backend/services/counter-service/internal/models"
	"bclub/backend/services/counter-service/internal/service"
)

type togglePayload struct {
	ID     int64           `json:"id"`
	Type   models.Category `json:"type"`
	IsPaid bool            `json:"is_paid"`
}

// NewTogglePaymentHandler handles POST /api/{kind}/.../{id}/toggle-payment for a fixed kind.
func NewTogglePaymentHandler(payments *service.PaymentsService, kind models.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		togglePayment(w, r, payments, kind, "")
	}
}

// NewClientTogglePaymentHandler handles POST /api/clients/{name}/{kind}/{id}/toggle-payment.
// The record must belong to the named client.
func NewClientTogglePaymentHandler(payments *service.PaymentsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.PathValue("name"))
		if name == "" {
			writeAppError(w, apperr.Validation("client name is required"))
			return
		}
		togglePayment(w, r, payments, models.Category(r.PathValue("kind")), name)
	}
}

func togglePayment(w http.ResponseWriter, r *http.Request, payments *service.PaymentsService, kind models.Category, client string) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, err)
		return
	}
	paid, err := payments.TogglePayment(r.Context(), service.TogglePaymentInput{Kind: kind, ID: id, ClientName: client})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, togglePayload{ID: id, Type: kind, IsPaid: paid})
}

type bulkPayload struct {
	ClientName string            `json:"client_name"`
	Updated    models.BulkResult `json:"updated"`
	Total      int64             `json:"total"`
}

// NewPayAllHandler handles POST /api/clients/{name}/pay-all.
func NewPayAllHandler(payments *service.PaymentsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		res, err := payments.MarkAllPaid(r.Context(), name)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bulkPayload{ClientName: name, Updated: res, Total: res.Total()})
	}
}

// NewDeletePaidHandler handles DELETE /api/clients/{name}/paid.
func NewDeletePaidHandler(payments *service.PaymentsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		res, err := payments.DeleteAllPaid(r.Context(), name)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bulkPayload{ClientName: name, Updated: res, Total: res.Total()})
	}
}
