package web

import (
	"net/http"

	"orderdesk/internal/app"
	"orderdesk/internal/core"
)

// listLeads handles GET /api/leads with an optional ?status= funnel filter.
func (h *Handler) listLeads(w http.ResponseWriter, r *http.Request) {
	var statusPtr *core.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := core.Status(raw)
		if !core.ValidStatus(core.KindLead, s) {
			writeError(w, r, "unknown lead status: "+raw, "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		statusPtr = &s
	}

	result, err := h.svc.ListLeads(r.Context(), statusPtr)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// getLead handles GET /api/leads/{ref}.
func (h *Handler) getLead(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetLead(r.Context(), entityRef(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// createLead handles POST /api/leads.
func (h *Handler) createLead(w http.ResponseWriter, r *http.Request) {
	var req app.CreateLeadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateLead(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// saveLead handles POST /api/leads/{ref}/save.
func (h *Handler) saveLead(w http.ResponseWriter, r *http.Request) {
	var req app.SaveLeadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Ref = entityRef(r)

	result, err := h.svc.SaveLead(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// convertLead handles POST /api/leads/{ref}/convert. Conversion requires the
// lead to be confirmed; anything else is a 422.
func (h *Handler) convertLead(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ConvertLead(r.Context(), entityRef(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}
