package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"orderdesk/internal/core"

	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Error     string          `json:"error"`
	Code      string          `json:"code"`
	RequestID string          `json:"request_id,omitempty"`
	Rows      []core.RowError `json:"rows,omitempty"`
	Completed int             `json:"completed,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONStatus writes a JSON response with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps application errors onto HTTP semantics: row-level
// validation and rejected transitions are 422, unknown refs are 404, partial
// persistence failures are 502 with the completed-operation count so the
// client can reload instead of blindly retrying.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		valErr   *core.ValidationError
		rejErr   *core.TransitionRejected
		notFound *core.NotFoundError
		persist  *core.PersistenceError
		reqErrs  validator.ValidationErrors
	)
	switch {
	case errors.As(err, &valErr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(errorResponse{
			Error:     valErr.Error(),
			Code:      "VALIDATION_FAILED",
			RequestID: requestIDFromContext(r.Context()),
			Rows:      valErr.Rows,
		})
	case errors.As(err, &rejErr):
		writeError(w, r, rejErr.Error(), "TRANSITION_REJECTED", http.StatusUnprocessableEntity)
	case errors.As(err, &notFound):
		writeError(w, r, notFound.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrSaveInFlight):
		writeError(w, r, err.Error(), "SAVE_IN_FLIGHT", http.StatusConflict)
	case errors.As(err, &persist):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(errorResponse{
			Error:     persist.Error(),
			Code:      "PERSISTENCE_FAILED",
			RequestID: requestIDFromContext(r.Context()),
			Completed: persist.Completed,
		})
	case errors.As(err, &reqErrs):
		writeError(w, r, "invalid request: "+reqErrs.Error(), "BAD_REQUEST", http.StatusBadRequest)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// decodeJSON decodes the request body into v and writes an appropriate error
// response on failure. Returns HTTP 413 when the body exceeds the size limit
// set by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
