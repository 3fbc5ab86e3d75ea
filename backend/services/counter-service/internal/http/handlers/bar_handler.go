package handlers

import (
	"net/http"

	"bclub/backend/services/counter-service/internal/models"
	"bclub/backend/services/counter-service/internal/repository"
	"bclub/backend/services/counter-service/internal/service"
)

type barOrderPayload struct {
	models.BarOrder
	FormattedTotal string `json:"formatted_total"`
}

func toBarOrderPayload(o models.BarOrder, currency string) barOrderPayload {
	return barOrderPayload{BarOrder: o, FormattedTotal: service.FormatAmount(o.TotalPrice, currency)}
}

// NewListItemsHandler handles GET /api/bar/items. Inactive items are included with ?all=true.
func NewListItemsHandler(bar *service.BarService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		only, err := activeOnly(r)
		if err != nil {
			writeAppError(w, err)
			return
		}
		items, err := bar.ListItems(r.Context(), only)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
	}
}

// NewCreateItemHandler handles POST /api/bar/items.
func NewCreateItemHandler(bar *service.BarService) http.HandlerFunc {
	type request struct {
		Name  string `json:"name"`
		Price int64  `json:"price"`
		Icon  string `json:"icon"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		item, err := bar.CreateItem(r.Context(), service.CreateItemInput{Name: req.Name, Price: req.Price, Icon: req.Icon})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

// NewUpdateItemHandler handles PATCH /api/bar/items/{id}. Omitted fields keep their value.
func NewUpdateItemHandler(bar *service.BarService) http.HandlerFunc {
	type request struct {
		Name     *string `json:"name"`
		Price    *int64  `json:"price"`
		Icon     *string `json:"icon"`
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
		item, err := bar.UpdateItem(r.Context(), id, service.UpdateItemInput{
			Name:     req.Name,
			Price:    req.Price,
			Icon:     req.Icon,
			IsActive: req.IsActive,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// NewDeactivateItemHandler handles DELETE /api/bar/items/{id}. The item is withdrawn, not removed.
func NewDeactivateItemHandler(bar *service.BarService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeAppError(w, err)
			return
		}
		item, err := bar.DeactivateItem(r.Context(), id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// NewCreateOrderHandler handles POST /api/bar/orders.
func NewCreateOrderHandler(bar *service.BarService, currency string) http.HandlerFunc {
	type line struct {
		ItemID   int64 `json:"item_id"`
		Quantity int64 `json:"quantity"`
	}
	type request struct {
		ClientName string `json:"client_name"`
		Items      []line `json:"items"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, err)
			return
		}
		lines := make([]service.OrderLine, 0, len(req.Items))
		for _, l := range req.Items {
			lines = append(lines, service.OrderLine{ItemID: l.ItemID, Quantity: l.Quantity})
		}
		order, err := bar.CreateOrder(r.Context(), service.CreateOrderInput{ClientName: req.ClientName, Items: lines})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBarOrderPayload(*order, currency))
	}
}

// NewListOrdersHandler handles GET /api/bar/orders?date=&is_paid=.
func NewListOrdersHandler(bar *service.BarService, currency string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isPaid, err := queryBool(r, "is_paid")
		if err != nil {
			writeAppError(w, err)
			return
		}
		orders, err := bar.ListOrders(r.Context(), repository.OrderFilter{Date: r.URL.Query().Get("date"), IsPaid: isPaid})
		if err != nil {
			writeAppError(w, err)
			return
		}
		out := make([]barOrderPayload, 0, len(orders))
		for _, o := range orders {
			out = append(out, toBarOrderPayload(o, currency))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"orders": out})
	}
}
