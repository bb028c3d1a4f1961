package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"order-desk/internal/app"
	"order-desk/internal/core"
	"order-desk/internal/session"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
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
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps service errors to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrSuperseded):
		return http.StatusNoContent, "SUPERSEDED"
	case errors.Is(err, app.ErrSubmissionPending):
		return http.StatusConflict, "SUBMISSION_PENDING"
	case errors.Is(err, app.ErrAssistantDisabled):
		return http.StatusServiceUnavailable, "ASSISTANT_DISABLED"
	case errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR"
	case errors.Is(err, core.ErrMixedEdit):
		return http.StatusUnprocessableEntity, "MIXED_EDIT"
	case errors.Is(err, core.ErrDegenerateOverride):
		return http.StatusUnprocessableEntity, "DEGENERATE_OVERRIDE"
	case errors.Is(err, core.ErrInvalidIntent):
		return http.StatusUnprocessableEntity, "INVALID_INTENT"
	case errors.Is(err, session.ErrEmptyToken):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, core.ErrIndexOutOfRange):
		return http.StatusNotFound, "LINE_NOT_FOUND"
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrUnknownReference):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, core.ErrNetwork):
		return http.StatusBadGateway, "UPSTREAM_ERROR"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// writeServiceError writes err with its mapped status. Superseded searches get
// an empty 204.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeError(w, r, err.Error(), code, status)
}
