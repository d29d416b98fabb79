package handlers

import (
	"net/http"

	"tomatocr/cotizador/internal/domain/quote/local"
)

type themeBody struct {
	Theme local.Theme `json:"theme"`
}

func (h *Handlers) GetTheme(w http.ResponseWriter, r *http.Request) {
	t, err := h.Prefs.Theme(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: t})
}

func (h *Handlers) PutTheme(w http.ResponseWriter, r *http.Request) {
	var req themeBody
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	t, err := local.ParseTheme(string(req.Theme))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Prefs.SetTheme(r.Context(), t); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: t})
}
