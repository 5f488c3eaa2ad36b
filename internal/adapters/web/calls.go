package web

import (
	"net/http"

	"orderdesk/internal/app"
	"orderdesk/internal/core"
)

// logOrderCall handles POST /api/orders/{ref}/calls.
func (h *Handler) logOrderCall(w http.ResponseWriter, r *http.Request) {
	h.logCall(w, r, core.KindOrder)
}

// logLeadCall handles POST /api/leads/{ref}/calls.
func (h *Handler) logLeadCall(w http.ResponseWriter, r *http.Request) {
	h.logCall(w, r, core.KindLead)
}

func (h *Handler) logCall(w http.ResponseWriter, r *http.Request, kind core.EntityKind) {
	var req app.LogCallRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Kind = string(kind)
	req.Ref = entityRef(r)

	result, err := h.svc.LogCall(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// listOrderCalls handles GET /api/orders/{ref}/calls.
func (h *Handler) listOrderCalls(w http.ResponseWriter, r *http.Request) {
	h.callHistory(w, r, core.KindOrder)
}

// listLeadCalls handles GET /api/leads/{ref}/calls.
func (h *Handler) listLeadCalls(w http.ResponseWriter, r *http.Request) {
	h.callHistory(w, r, core.KindLead)
}

func (h *Handler) callHistory(w http.ResponseWriter, r *http.Request, kind core.EntityKind) {
	result, err := h.svc.CallHistory(r.Context(), kind, entityRef(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
