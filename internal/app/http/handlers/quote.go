package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tomatocr/cotizador/internal/domain/quote"
	"tomatocr/cotizador/internal/domain/quote/gateway"
	"tomatocr/cotizador/internal/domain/quote/store"
)

type quoteResponse struct {
	store.Snapshot
	Save         gateway.SaveStatus `json:"save"`
	DraftPending bool               `json:"draftPending"`
}

func (h *Handlers) respondSnapshot(w http.ResponseWriter, status int, snap store.Snapshot) {
	writeJSON(w, status, quoteResponse{
		Snapshot:     snap,
		Save:         h.Gateway.Status(),
		DraftPending: h.Store.DraftPending(),
	})
}

func (h *Handlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	h.respondSnapshot(w, http.StatusOK, h.Store.Snapshot())
}

func (h *Handlers) NewQuote(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.NewQuote(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK, snap)
}

func (h *Handlers) DuplicateQuote(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.DuplicateQuote(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK, snap)
}

func (h *Handlers) ClearDraft(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.ClearDraft(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK, snap)
}

type setFieldRequest struct {
	Path  string     `json:"path"`
	Value fieldValue `json:"value"`
}

func (h *Handlers) SetField(w http.ResponseWriter, r *http.Request) {
	var req setFieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	snap, err := h.Store.SetField(req.Path, string(req.Value))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK, snap)
}

type addItemRequest struct {
	Kind string `json:"kind"`
}

func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	kind := quote.KindService
	if req.Kind != "" {
		k, err := quote.ParseKind(req.Kind)
		if err != nil {
			h.writeError(w, err)
			return
		}
		kind = k
	}
	if _, err := h.Store.AddItem(kind); err != nil {
		h.writeError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusCreated, h.Store.Snapshot())
}

type updateItemRequest struct {
	Field string     `json:"field"`
	Value fieldValue `json:"value"`
}

func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	snap, err := h.Store.UpdateItem(chi.URLParam(r, "id"), req.Field, string(req.Value))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK, snap)
}

func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.RemoveItem(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK, snap)
}
