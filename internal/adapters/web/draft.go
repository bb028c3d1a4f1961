package web

import (
	"net/http"

	"order-desk/internal/app"
	"order-desk/internal/core"

	"github.com/shopspring/decimal"
)

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Draft())
}

func (h *Handler) resetDraft(w http.ResponseWriter, r *http.Request) {
	h.svc.ResetDraft()
	writeJSON(w, h.svc.Draft())
}

func (h *Handler) loadDefaults(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Attached []core.Reference `json:"attached"`
		Warnings []string         `json:"warnings,omitempty"`
		Draft    app.DraftView    `json:"draft"`
	}
	res := h.svc.LoadDefaults(r.Context())
	writeJSON(w, response{Attached: res.Attached, Warnings: res.Warnings, Draft: h.svc.Draft()})
}

// attachReference handles PUT /api/draft/references/{kind} with {"id": n}.
func (h *Handler) attachReference(w http.ResponseWriter, r *http.Request) {
	kind, ok := refKind(w, r)
	if !ok {
		return
	}
	var req struct {
		ID int `json:"id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := h.svc.Attach(kind, req.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, h.svc.Draft())
}

func (h *Handler) detachReference(w http.ResponseWriter, r *http.Request) {
	kind, ok := refKind(w, r)
	if !ok {
		return
	}
	if err := h.svc.Detach(kind); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, h.svc.Draft())
}

func (h *Handler) setComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Comment string `json:"comment"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.svc.SetComment(req.Comment)
	writeJSON(w, h.svc.Draft())
}

type lineResponse struct {
	Index int           `json:"index"`
	Line  core.LineItem `json:"line"`
}

// addLine handles POST /api/draft/lines with {"product_id": n, "quantity": q}.
func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int             `json:"product_id"`
		Quantity  decimal.Decimal `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	i, line, err := h.svc.AddProduct(req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, lineResponse{Index: i, Line: line})
}

func (h *Handler) clearLines(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearLines()
	writeJSON(w, h.svc.Draft())
}

// editLine handles PATCH /api/draft/lines/{index}. Any subset of quantity,
// unit_price, discount_percent and line_total may be sent.
func (h *Handler) editLine(w http.ResponseWriter, r *http.Request) {
	i, ok := lineIndex(w, r)
	if !ok {
		return
	}
	var edit core.LineEdit
	if !decodeJSON(w, r, &edit) {
		return
	}
	line, err := h.svc.EditLine(i, edit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, lineResponse{Index: i, Line: line})
}

// stepLine handles POST /api/draft/lines/{index}/step with {"delta": ±n}.
func (h *Handler) stepLine(w http.ResponseWriter, r *http.Request) {
	i, ok := lineIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		Delta int64 `json:"delta"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	line, err := h.svc.StepQuantity(i, req.Delta)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, lineResponse{Index: i, Line: line})
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	i, ok := lineIndex(w, r)
	if !ok {
		return
	}
	if err := h.svc.RemoveLine(i); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, h.svc.Draft())
}

// submit handles POST /api/draft/submit with {"post": bool}.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Post bool `json:"post"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.SubmitOrder(r.Context(), req.Post)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// assistant handles POST /api/assistant with {"text": "..."}: the text is
// interpreted and the resulting intent applied to the draft.
func (h *Handler) assistant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	intent, err := h.svc.Interpret(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	result, err := h.svc.ApplyIntent(r.Context(), *intent)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
