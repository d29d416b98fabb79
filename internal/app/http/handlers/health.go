package handlers

import (
	"net/http"
)

type healthResponse struct {
	Status       string `json:"status"`
	QuoteNumber  string `json:"quoteNumber,omitempty"`
	DraftPending bool   `json:"draftPending"`
}

// Health is unauthenticated, so it reports only the active quote number.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if h.Store != nil {
		resp.QuoteNumber = h.Store.Snapshot().Quote.Number
		resp.DraftPending = h.Store.DraftPending()
	}
	writeJSON(w, http.StatusOK, resp)
}
