package gofpdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomatocr/cotizador/internal/domain/quote"
)

var fixedNow = time.Date(2026, 3, 9, 15, 4, 5, 0, time.UTC)

func sampleQuote() quote.Quote {
	q := quote.New("TCR-2026-0042", fixedNow, quote.DefaultSettings())
	q.Client.Name = "Ana Mora"
	q.Notes = "Incluye retiro de ramas"
	q.Items[0].Description = "Poda de árboles"
	q.Items[0].Quantity = decimal.NewFromInt(3)
	q.Items[0].UnitPrice = decimal.NewFromInt(12500)
	q.AddItem(quote.KindMaterial)
	return q
}

func TestGenerate_CoreFont(t *testing.T) {
	g := New(Options{Branding: quote.DefaultBranding(), Now: func() time.Time { return fixedNow }})
	q := sampleQuote()

	out, err := g.Generate(q, q.Totals())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
}

func TestGenerate_MissingFontDirFallsBack(t *testing.T) {
	g := New(Options{FontDir: t.TempDir(), Branding: quote.DefaultBranding()})
	q := sampleQuote()

	out, err := g.Generate(q, q.Totals())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestGenerate_RequiresClientName(t *testing.T) {
	g := New(Options{Branding: quote.DefaultBranding()})
	q := sampleQuote()
	q.Client.Name = ""

	out, err := g.Generate(q, q.Totals())
	assert.ErrorIs(t, err, quote.ErrClientNameRequired)
	assert.Nil(t, out)
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "abc", trim("abc", 5))
	assert.Equal(t, "ab…", trim("abcdef", 3))
}
