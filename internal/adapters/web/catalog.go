package web

import (
	"net/http"

	"order-desk/internal/core"
)

// debounced reports whether the caller asked for ?debounce=1, the mode used
// by search-as-you-type inputs.
func debounced(r *http.Request) bool {
	v := r.URL.Query().Get("debounce")
	return v == "1" || v == "true"
}

// listClients handles GET /api/clients?q=.
func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if debounced(r) {
		result, err := h.svc.DebouncedSearchClients(r.Context(), q)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, result)
		return
	}
	writeJSON(w, h.svc.SearchClients(r.Context(), q))
}

// createClient handles POST /api/clients.
func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var req core.NewClient
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.svc.CreateClient(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, created)
}

// listProducts handles GET /api/products?q=.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if debounced(r) {
		result, err := h.svc.DebouncedSearchProducts(r.Context(), q)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, result)
		return
	}
	writeJSON(w, h.svc.SearchProducts(r.Context(), q))
}

// listReferences handles GET /api/references/{kind}.
func (h *Handler) listReferences(w http.ResponseWriter, r *http.Request) {
	kind, ok := refKind(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ListReferences(r.Context(), kind)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
