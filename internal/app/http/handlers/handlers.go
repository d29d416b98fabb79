package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"tomatocr/cotizador/internal/domain/access"
	"tomatocr/cotizador/internal/domain/quote"
	"tomatocr/cotizador/internal/domain/quote/gateway"
	"tomatocr/cotizador/internal/domain/quote/local"
	"tomatocr/cotizador/internal/domain/quote/pdf"
	"tomatocr/cotizador/internal/domain/quote/render"
	"tomatocr/cotizador/internal/domain/quote/store"
	"tomatocr/cotizador/internal/infra/observability"
)

// Archiver keeps a copy of exported documents and returns where it lives.
type Archiver interface {
	Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error)
}

type Handlers struct {
	Store    *store.Store
	Gateway  *gateway.Service
	Renderer *render.Renderer
	PDF      pdf.Generator
	Archive  Archiver
	// ArchiveAll uploads every PDF export, not only those asking for it.
	ArchiveAll bool
	Prefs      *local.Preferences
	Gate       *access.Gate
	Defaults   quote.Defaults
	Metrics    *observability.Metrics
	Log        *zap.Logger
	Now        func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Handlers) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// writeError maps domain errors onto status codes. Remote failures keep
// the remote store's message.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var remote *gateway.RemoteError
	switch {
	case errors.Is(err, quote.ErrClientNameRequired),
		errors.Is(err, quote.ErrInvalidValue),
		errors.Is(err, quote.ErrUnknownField),
		errors.Is(err, local.ErrInvalidTheme):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, quote.ErrItemNotFound), errors.Is(err, gateway.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, access.ErrAccessDenied):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.As(err, &remote):
		http.Error(w, remote.Error(), http.StatusBadGateway)
	default:
		h.logger().Error("http: internal error", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func isValidation(err error) bool {
	return errors.Is(err, quote.ErrInvalidValue) || errors.Is(err, quote.ErrClientNameRequired)
}

// fieldValue accepts a JSON string as is and any other JSON scalar in its
// literal form, so {"value": 12.5} and {"value": "12.5"} are the same edit.
type fieldValue string

func (v *fieldValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = fieldValue(s)
		return nil
	}
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		raw = ""
	}
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		return errors.New("value must be a scalar")
	}
	*v = fieldValue(raw)
	return nil
}
