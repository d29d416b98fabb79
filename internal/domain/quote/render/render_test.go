package render

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomatocr/cotizador/internal/domain/quote"
)

func sampleQuote() quote.Quote {
	q := quote.New("TCR-2026-0042", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), quote.DefaultSettings())
	q.Client = quote.Client{Name: "Ana Mora", ID: "1-1234-0567", Phone: "8888-0000", Address: "Alajuela"}
	q.Items[0].Description = "Poda de árboles"
	q.Items[0].Quantity = decimal.NewFromInt(2)
	q.Items[0].UnitPrice = decimal.NewFromInt(1000)
	return q
}

func TestRender_Layout(t *testing.T) {
	q := sampleQuote()
	out, err := New(quote.DefaultBranding()).Render(q, q.Totals())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "COTIZACIÓN")
	assert.Contains(t, html, "TCR-2026-0042")
	assert.Contains(t, html, "Ana Mora")
	assert.Contains(t, html, "1-1234-0567")
	assert.Contains(t, html, "2026-03-09")
	assert.Contains(t, html, "15 días naturales")
	assert.Contains(t, html, "<strong>Servicio</strong>: Poda de árboles")
	assert.Contains(t, html, "₡1\u00a0000,00")
	assert.Contains(t, html, "₡2\u00a0260,00")
	assert.Contains(t, html, "IVA (13%)")
	assert.Contains(t, html, "Términos y Condiciones")
	assert.Contains(t, html, "TOMATO CR - Jardinería · Paisajismo · Mantenimiento")
	assert.NotContains(t, html, "Notas y Alcance")
	assert.NotContains(t, html, "Descuento")
}

func TestRender_Logo(t *testing.T) {
	q := sampleQuote()
	out, err := New(quote.DefaultBranding()).Render(q, q.Totals())
	require.NoError(t, err)
	assert.NotContains(t, string(out), `class="logo"`)
	assert.Contains(t, string(out), "<strong>TOMATO CR</strong>")

	brand := quote.DefaultBranding()
	brand.LogoURL = "https://www.tomatocr.com/LogoTomatoB.png"
	out, err = New(brand).Render(q, q.Totals())
	require.NoError(t, err)
	assert.Contains(t, string(out), `<img src="https://www.tomatocr.com/LogoTomatoB.png" class="logo"`)
}

func TestRender_RequiresClientName(t *testing.T) {
	q := sampleQuote()
	q.Client.Name = "  \t"
	out, err := New(quote.DefaultBranding()).Render(q, q.Totals())
	assert.ErrorIs(t, err, quote.ErrClientNameRequired)
	assert.Nil(t, out)
}

func TestRender_EscapesFreeText(t *testing.T) {
	q := sampleQuote()
	q.Client.Name = `<script>alert("x")</script>`
	q.Notes = "Tom & Jerry <b>"
	q.Items[0].Description = "<img src=x onerror=1>"

	out, err := New(quote.DefaultBranding()).Render(q, q.Totals())
	require.NoError(t, err)
	html := string(out)

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<img src=x")
	assert.NotContains(t, html, "<b>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Tom &amp; Jerry &lt;b&gt;")
	assert.Contains(t, html, "Notas y Alcance")
}

func TestRender_Deterministic(t *testing.T) {
	q := sampleQuote()
	r := New(quote.DefaultBranding())
	a, err := r.Render(q, q.Totals())
	require.NoError(t, err)
	b, err := r.Render(q, q.Totals())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRender_USDAndDiscount(t *testing.T) {
	q := sampleQuote()
	q.Currency = quote.USD
	q.Discount = decimal.NewFromInt(500)
	q.TaxEnabled = false

	out, err := New(quote.DefaultBranding()).Render(q, q.Totals())
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "$2,000.00")
	assert.Contains(t, html, "-$500.00")
	assert.Contains(t, html, "IVA (0%)")
	assert.Contains(t, html, "$1,500.00")
	assert.False(t, strings.Contains(html, "₡"))
}
