package web

import (
	"net/http"
)

type sessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

func (h *Handler) sessionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, sessionResponse{Authenticated: h.svc.Authenticated()})
}

// login handles POST /api/session with {"token": "..."}.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.Login(r.Context(), req.Token); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sessionResponse{Authenticated: true})
}

// logout handles DELETE /api/session. The draft is reset with the session.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
