// Package render produces the printable HTML document for a quote.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"tomatocr/cotizador/internal/domain/quote"
)

//go:embed templates/quote.html.tmpl
var templatesFS embed.FS

var page = template.Must(template.ParseFS(templatesFS, "templates/quote.html.tmpl"))

type Renderer struct {
	brand quote.Branding
}

func New(brand quote.Branding) *Renderer {
	return &Renderer{brand: brand}
}

type row struct {
	N           int
	Kind        quote.Kind
	Description string
	Unit        string
	Quantity    string
	UnitPrice   string
	LineTotal   string
}

type view struct {
	Quote    quote.Quote
	Brand    quote.Branding
	Contact  string
	Rows     []row
	Subtotal string
	Discount string
	TaxRate  string
	Tax      string
	Total    string
	Notes    string
}

// Render fails with quote.ErrClientNameRequired before producing anything
// when the client has no name. Output depends only on the arguments.
func (r *Renderer) Render(q quote.Quote, totals quote.Totals) ([]byte, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, r.view(q, totals)); err != nil {
		return nil, fmt.Errorf("render quote %s: %w", q.Number, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) view(q quote.Quote, t quote.Totals) view {
	v := view{
		Quote:    q,
		Brand:    r.brand,
		Contact:  contactLine(q.Client),
		Subtotal: quote.FormatMoney(t.Subtotal, q.Currency),
		TaxRate:  q.TaxRate.String(),
		Tax:      quote.FormatMoney(t.Tax, q.Currency),
		Total:    quote.FormatMoney(t.Total, q.Currency),
		Notes:    strings.TrimSpace(q.Notes),
	}
	if !q.TaxEnabled {
		v.TaxRate = "0"
	}
	if t.Discount.IsPositive() {
		v.Discount = quote.FormatMoney(t.Discount, q.Currency)
	}
	for i, it := range q.Items {
		v.Rows = append(v.Rows, row{
			N:           i + 1,
			Kind:        it.Kind,
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    it.Quantity.String(),
			UnitPrice:   quote.FormatMoney(it.UnitPrice, q.Currency),
			LineTotal:   quote.FormatMoney(it.LineTotal(), q.Currency),
		})
	}
	return v
}

// contactLine joins the identification and e-mail shown under "Contacto".
func contactLine(c quote.Client) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{c.ID, c.Email} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}
