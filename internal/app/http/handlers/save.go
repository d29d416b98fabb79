package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tomatocr/cotizador/internal/domain/quote/gateway"
)

type saveResponse struct {
	Save   gateway.SaveStatus `json:"save"`
	Recent []gateway.Summary  `json:"recent"`
}

func (h *Handlers) SaveQuote(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	start := time.Now()
	_, err := h.Gateway.Save(r.Context(), snap.Quote)
	if err != nil {
		var remote *gateway.RemoteError
		if errors.As(err, &remote) {
			h.Metrics.ObserveSave(time.Since(start), err)
		}
		h.writeError(w, err)
		return
	}
	h.Metrics.ObserveSave(time.Since(start), nil)
	h.logger().Info("quote: saved", zap.String("quote", snap.Quote.Number))
	writeJSON(w, http.StatusOK, saveResponse{Save: h.Gateway.Status(), Recent: h.Gateway.Recent()})
}

type recentRow struct {
	gateway.Summary
	TotalFormatted string `json:"totalFormatted"`
}

func (h *Handlers) RecentQuotes(w http.ResponseWriter, r *http.Request) {
	rows := h.Gateway.ListRecent(r.Context(), gateway.MaxRecent)
	out := make([]recentRow, 0, len(rows))
	for _, s := range rows {
		out = append(out, recentRow{Summary: s, TotalFormatted: s.FormattedTotal()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) LoadQuote(w http.ResponseWriter, r *http.Request) {
	q, err := h.Gateway.LoadByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK, h.Store.Load(q))
}
