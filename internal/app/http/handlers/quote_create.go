package handlers

import (
	"io"
	"net/http"

	"tomatocr/cotizador/internal/domain/quote"
)

// RenderQuote renders a quote posted in full, without touching the live
// quote. ?format=html returns the printable page; the default is PDF.
func (h *Handlers) RenderQuote(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	q, err := quote.Decode(data, h.Defaults, h.now())
	if err != nil {
		if isValidation(err) {
			h.writeError(w, err)
			return
		}
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	totals := q.Totals()

	if r.URL.Query().Get("format") == "html" {
		body, err := h.Renderer.Render(q, totals)
		h.Metrics.Export("html", err)
		if err != nil {
			h.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
		return
	}

	body, err := h.PDF.Generate(q, totals)
	h.Metrics.Export("pdf", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writePDF(w, q.Number, body)
}
