package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"order-desk/internal/app"
	"order-desk/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins []string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/session", h.sessionStatus)
		r.Post("/api/session", h.login)
		r.Delete("/api/session", h.logout)

		// ── Protected (401 JSON without a token) ──────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession)

			r.Get("/api/clients", h.listClients)
			r.Post("/api/clients", h.createClient)
			r.Get("/api/products", h.listProducts)
			r.Get("/api/references/{kind}", h.listReferences)

			r.Get("/api/draft", h.getDraft)
			r.Delete("/api/draft", h.resetDraft)
			r.Post("/api/draft/defaults", h.loadDefaults)
			r.Put("/api/draft/references/{kind}", h.attachReference)
			r.Delete("/api/draft/references/{kind}", h.detachReference)
			r.Put("/api/draft/comment", h.setComment)
			r.Post("/api/draft/lines", h.addLine)
			r.Delete("/api/draft/lines", h.clearLines)
			r.Patch("/api/draft/lines/{index}", h.editLine)
			r.Post("/api/draft/lines/{index}/step", h.stepLine)
			r.Delete("/api/draft/lines/{index}", h.removeLine)
			r.Post("/api/draft/submit", h.submit)

			r.Post("/api/assistant", h.assistant)
		})
	})

	h.router = r
	return r
}

// health returns service status and whether a TableCRM token is set.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status        string `json:"status"`
		Authenticated bool   `json:"authenticated"`
		Assistant     bool   `json:"assistant"`
	}
	writeJSON(w, response{Status: "ok", Authenticated: h.svc.Authenticated(), Assistant: h.svc.AssistantEnabled()})
}

// RequireSession rejects requests with 401 JSON while no token is set.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.svc.Authenticated() {
			writeError(w, r, "log in with a TableCRM token first", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
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

// refKind parses the {kind} URL parameter.
func refKind(w http.ResponseWriter, r *http.Request) (core.RefKind, bool) {
	kind, err := core.ParseRefKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeServiceError(w, r, err)
		return 0, false
	}
	return kind, true
}

// lineIndex parses the 0-based {index} URL parameter.
func lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, "line index must be an integer", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return i, true
}
