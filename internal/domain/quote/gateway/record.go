package gateway

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tomatocr/cotizador/internal/domain/quote"
)

// RecordID is the remote primary key. PostgREST returns it as a number,
// the SQL store as text; both decode into the same string form.
type RecordID string

func (id *RecordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = RecordID(n.String())
	return nil
}

// Record is one row of the cotizaciones table.
type Record struct {
	ID          RecordID         `json:"id,omitempty"`
	Number      string           `json:"numero_cotizacion"`
	IssueDate   string           `json:"fecha_emision"`
	ClientName  string           `json:"cliente_nombre"`
	Client      *quote.Client    `json:"cliente_datos"`
	Currency    string           `json:"moneda"`
	ServiceType string           `json:"tipo_servicio"`
	Frequency   string           `json:"frecuencia"`
	ValidDays   int              `json:"validez_dias"`
	Notes       string           `json:"notes"`
	Terms       string           `json:"terminos"`
	// Discount and TaxRate live in optional columns; nil leaves them out
	// of the row.
	Discount    *decimal.Decimal `json:"descuento,omitempty"`
	TaxRate     *decimal.Decimal `json:"tasa_iva,omitempty"`
	Subtotal    decimal.Decimal  `json:"subtotal"`
	Tax         decimal.Decimal  `json:"iva"`
	Total       decimal.Decimal  `json:"total"`
	Items       []quote.LineItem `json:"items"`
	CreatedAt   *time.Time       `json:"created_at,omitempty"`
}

// Summary is the subset shown in the recent quotes list.
type Summary struct {
	ID         RecordID        `json:"id"`
	Number     string          `json:"numero_cotizacion"`
	ClientName string          `json:"cliente_nombre"`
	IssueDate  string          `json:"fecha_emision"`
	Currency   string          `json:"moneda"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
}

// FormattedTotal renders the total in the record's own currency.
func (s Summary) FormattedTotal() string {
	return quote.FormatMoney(s.Total, currencyOr(s.Currency, quote.CRC))
}

func NewRecord(q quote.Quote) Record {
	t := q.Totals()
	client := q.Client
	items := q.Items
	if items == nil {
		items = []quote.LineItem{}
	}
	discount, rate := q.Discount, q.TaxRate
	return Record{
		Number:      q.Number,
		IssueDate:   q.IssueDate.String(),
		ClientName:  q.Client.Name,
		Client:      &client,
		Currency:    string(q.Currency),
		ServiceType: q.ServiceType,
		Frequency:   q.Frequency,
		ValidDays:   q.ValidDays,
		Notes:       q.Notes,
		Terms:       q.Terms,
		Discount:    &discount,
		TaxRate:     &rate,
		Subtotal:    t.Subtotal,
		Tax:         t.Tax,
		Total:       t.Total,
		Items:       items,
	}
}

func (r Record) Summary() Summary {
	return Summary{
		ID:         r.ID,
		Number:     r.Number,
		ClientName: r.ClientName,
		IssueDate:  r.IssueDate,
		Currency:   r.Currency,
		Total:      r.Total,
		CreatedAt:  r.CreatedAt,
	}
}

// ToQuote maps a stored record back onto a quote. The record does not
// keep the tax toggle, so it is derived from the stored tax amount: a
// quote saved with tax enabled at a zero rate comes back disabled.
func (r Record) ToQuote(d quote.Defaults) quote.Quote {
	q := quote.Quote{
		Number:      r.Number,
		Currency:    currencyOr(r.Currency, d.Currency),
		ServiceType: r.ServiceType,
		Frequency:   r.Frequency,
		ValidDays:   r.ValidDays,
		Notes:       r.Notes,
		Terms:       r.Terms,
		TaxEnabled:  r.Tax.IsPositive(),
		TaxRate:     d.TaxRate,
		Discount:    decimal.Zero,
	}
	if date, err := quote.ParseDate(r.IssueDate); err == nil {
		q.IssueDate = date
	}
	if r.Client != nil {
		q.Client = *r.Client
	}
	if strings.TrimSpace(q.Client.Name) == "" {
		q.Client.Name = r.ClientName
	}
	if q.Frequency == "" {
		q.Frequency = d.Frequency
	}
	if q.ValidDays < 1 {
		q.ValidDays = d.ValidDays
	}
	if r.Discount != nil {
		q.Discount = *r.Discount
	}
	if r.TaxRate != nil {
		q.TaxRate = *r.TaxRate
	}

	q.Items = make([]quote.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if it.Kind == "" {
			it.Kind = quote.KindService
		}
		q.Items = append(q.Items, it)
	}
	return q
}

func currencyOr(s string, def quote.Currency) quote.Currency {
	c, err := quote.ParseCurrency(s)
	if err != nil {
		return def
	}
	return c
}
