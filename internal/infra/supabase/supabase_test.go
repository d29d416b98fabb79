package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomatocr/cotizador/internal/domain/quote"
	"tomatocr/cotizador/internal/domain/quote/gateway"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", "service-key")
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com", "k")
	assert.Error(t, err)
}

func TestQuotes_Upsert(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/cotizaciones", r.URL.Path)
		assert.Equal(t, "numero_cotizacion", r.URL.Query().Get("on_conflict"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "resolution=merge-duplicates,return=minimal", r.Header.Get("Prefer"))
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &gotBody))
		w.WriteHeader(http.StatusCreated)
	})

	q := quote.New("TCR-2026-0042", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), quote.DefaultSettings())
	q.Client.Name = "Ana"
	q.Items[0].UnitPrice = decimal.NewFromInt(100)
	rec := gateway.NewRecord(q)
	rec.ID = "7"

	require.NoError(t, NewQuotes(c).Upsert(context.Background(), rec))
	assert.Equal(t, "TCR-2026-0042", gotBody["numero_cotizacion"])
	assert.Equal(t, "Ana", gotBody["cliente_nombre"])
	assert.Equal(t, "2026-03-09", gotBody["fecha_emision"])
	assert.NotContains(t, gotBody, "id")
	assert.NotContains(t, gotBody, "created_at")
	assert.Contains(t, gotBody, "items")
}

func TestQuotes_UpsertColumns(t *testing.T) {
	base := []string{
		"numero_cotizacion", "fecha_emision", "cliente_nombre", "cliente_datos",
		"moneda", "tipo_servicio", "frecuencia", "validez_dias", "notes",
		"terminos", "subtotal", "iva", "total", "items",
	}
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = nil
		assert.NoError(t, json.Unmarshal(b, &gotBody))
		w.WriteHeader(http.StatusCreated)
	})

	q := quote.New("TCR-2026-0042", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), quote.DefaultSettings())
	q.Client.Name = "Ana"
	q.Discount = decimal.NewFromInt(25)
	rec := gateway.NewRecord(q)

	quotes := NewQuotes(c)
	require.NoError(t, quotes.Upsert(context.Background(), rec))
	keys := make([]string, 0, len(gotBody))
	for k := range gotBody {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, base, keys)

	quotes.ExtendedColumns = true
	require.NoError(t, quotes.Upsert(context.Background(), rec))
	assert.Equal(t, "25", gotBody["descuento"])
	assert.Equal(t, "13", gotBody["tasa_iva"])
}

func TestQuotes_UpsertKeepsRemoteMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint"}`))
	})
	err := NewQuotes(c).Upsert(context.Background(), gateway.Record{Number: "X"})
	require.Error(t, err)
	assert.Equal(t, "duplicate key value violates unique constraint", err.Error())
}

func TestQuotes_ListRecent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		w.Write([]byte(`[
			{"id": 2, "numero_cotizacion": "TCR-2026-0002", "cliente_nombre": "B", "fecha_emision": "2026-03-02", "moneda": "USD", "total": 10.5, "created_at": "2026-03-02T10:00:00+00:00"},
			{"id": 1, "numero_cotizacion": "TCR-2026-0001", "cliente_nombre": "A", "fecha_emision": "2026-03-01", "moneda": "CRC", "total": 113, "created_at": "2026-03-01T10:00:00+00:00"}
		]`))
	})
	rows, err := NewQuotes(c).ListRecent(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, gateway.RecordID("2"), rows[0].ID)
	assert.Equal(t, "$10.50", rows[0].FormattedTotal())
}

func TestQuotes_Get(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "eq.5" {
			w.Write([]byte(`[{"id": 5, "numero_cotizacion": "TCR-2026-0005", "cliente_nombre": "Ana", "iva": 0, "subtotal": 0, "total": 0, "items": []}]`))
			return
		}
		w.Write([]byte(`[]`))
	})
	repo := NewQuotes(c)

	rec, err := repo.Get(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, "TCR-2026-0005", rec.Number)

	_, err = repo.Get(context.Background(), "6")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestQuotes_AccessSecret(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/config_global", r.URL.Path)
		assert.Equal(t, "eq.pin_acceso", r.URL.Query().Get("clave"))
		w.Write([]byte(`[{"valor": "Tomate2026"}]`))
	})
	pin, err := NewQuotes(c).AccessSecret(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Tomate2026", pin)
}

func TestBucket_Upload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/storage/v1/object/quotes/2026/TCR-2026-0042.pdf", r.URL.Path)
		assert.Equal(t, "true", r.Header.Get("x-upsert"))
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"Key":"quotes/2026/TCR-2026-0042.pdf"}`))
	})
	url, err := NewBucket(c, "quotes").Upload(context.Background(), "2026/TCR-2026-0042.pdf", "application/pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, c.BaseURL+"/storage/v1/object/public/quotes/2026/TCR-2026-0042.pdf", url)
}

func TestBucket_UploadError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Bucket not found"}`))
	})
	_, err := NewBucket(c, "missing").Upload(context.Background(), "a.pdf", "application/pdf", nil)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Equal(t, "Bucket not found", se.Message)
}
