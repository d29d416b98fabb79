package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"tomatocr/cotizador/internal/domain/quote"
)

func (h *Handlers) ExportHTML(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	body, err := h.Renderer.Render(snap.Quote, snap.Totals)
	h.Metrics.Export("html", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// ExportPDF renders the current quote. With ?archive=1, or when every
// export is archived, a copy goes to the storage bucket and its URL is
// returned in the X-Archive-URL header.
func (h *Handlers) ExportPDF(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	body, err := h.PDF.Generate(snap.Quote, snap.Totals)
	h.Metrics.Export("pdf", err)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.Archive != nil && (h.ArchiveAll || r.URL.Query().Get("archive") == "1") {
		url, err := h.Archive.Upload(r.Context(), archiveName(snap.Quote), "application/pdf", body)
		if err != nil {
			h.logger().Warn("quote pdf: archive failed", zap.String("quote", snap.Quote.Number), zap.Error(err))
			http.Error(w, "storage upload failed", http.StatusBadGateway)
			return
		}
		w.Header().Set("X-Archive-URL", url)
	}
	writePDF(w, snap.Quote.Number, body)
}

func writePDF(w http.ResponseWriter, number string, body []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="Cotizacion-%s.pdf"`, number))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func archiveName(q quote.Quote) string {
	if q.IssueDate.IsZero() {
		return q.Number + ".pdf"
	}
	return fmt.Sprintf("%d/%s.pdf", q.IssueDate.Year(), q.Number)
}
