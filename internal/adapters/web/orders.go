package web

import (
	"net/http"

	"orderdesk/internal/app"
	"orderdesk/internal/core"
)

// listOrders handles GET /api/orders. An optional ?status= query filters by
// lifecycle status; an unknown status value yields 400 rather than an empty
// list so typos are not mistaken for an empty board.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var statusPtr *core.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := core.Status(raw)
		if !core.ValidStatus(core.KindOrder, s) {
			writeError(w, r, "unknown order status: "+raw, "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		statusPtr = &s
	}

	result, err := h.svc.ListOrders(r.Context(), statusPtr)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// getOrder handles GET /api/orders/{ref}.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetOrder(r.Context(), entityRef(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// createOrder handles POST /api/orders.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req app.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// saveOrder handles POST /api/orders/{ref}/save: one edit-screen submission
// carrying the staged item collection, optional customer field changes, an
// optional status change, and an optional paid amount.
func (h *Handler) saveOrder(w http.ResponseWriter, r *http.Request) {
	var req app.SaveOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Ref = entityRef(r)

	result, err := h.svc.SaveOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
