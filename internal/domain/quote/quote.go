package quote

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindService  Kind = "Servicio"
	KindMaterial Kind = "Material"
)

// ParseKind accepts the stored Spanish values and their English aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "servicio", "service":
		return KindService, nil
	case "material":
		return KindMaterial, nil
	}
	return "", invalid("kind", s)
}

func (k Kind) DefaultUnit() string {
	if k == KindMaterial {
		return "Unidad"
	}
	return "Visita"
}

type LineItem struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"type"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

func NewLineItem(kind Kind) LineItem {
	return LineItem{
		ID:        uuid.NewString(),
		Kind:      kind,
		Unit:      kind.DefaultUnit(),
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.Zero,
	}
}

func (it LineItem) LineTotal() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice)
}

type Client struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Quote struct {
	Number      string          `json:"quoteNumber"`
	IssueDate   Date            `json:"issueDate"`
	ValidDays   int             `json:"validDays"`
	Currency    Currency        `json:"currency"`
	ServiceType string          `json:"serviceType"`
	Frequency   string          `json:"frequency"`
	Client      Client          `json:"client"`
	Notes       string          `json:"notes"`
	Terms       string          `json:"terms"`
	TaxEnabled  bool            `json:"taxEnabled"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Discount    decimal.Decimal `json:"discount"`
	Items       []LineItem      `json:"items"`
}

// Defaults seeds new quotes. NumberPrefix is the leading part of the
// quote number, e.g. "TCR" in TCR-2026-0042.
type Defaults struct {
	NumberPrefix string
	Currency     Currency
	ServiceType  string
	Frequency    string
	ValidDays    int
	TaxRate      decimal.Decimal
	Terms        string
}

func DefaultSettings() Defaults {
	return Defaults{
		NumberPrefix: "TCR",
		Currency:     CRC,
		ServiceType:  "Jardinería",
		Frequency:    "Por demanda",
		ValidDays:    15,
		TaxRate:      decimal.NewFromInt(13),
		Terms:        "1. Validez: 15 días.\n2. Incluye mano de obra.",
	}
}

// New returns a blank quote with every field at its default and a single
// empty service line.
func New(number string, issued time.Time, d Defaults) Quote {
	return Quote{
		Number:      number,
		IssueDate:   DateOf(issued),
		ValidDays:   d.ValidDays,
		Currency:    d.Currency,
		ServiceType: d.ServiceType,
		Frequency:   d.Frequency,
		Terms:       d.Terms,
		TaxEnabled:  true,
		TaxRate:     d.TaxRate,
		Discount:    decimal.Zero,
		Items:       []LineItem{NewLineItem(KindService)},
	}
}

func (q Quote) Totals() Totals {
	return ComputeTotals(q.Items, q.Discount, q.TaxEnabled, q.TaxRate)
}

// Clone copies the item slice so the result can be handed to readers
// while the receiver keeps being mutated.
func (q Quote) Clone() Quote {
	out := q
	out.Items = make([]LineItem, len(q.Items))
	copy(out.Items, q.Items)
	return out
}

// Validate reports the checks shared by save and export.
func (q Quote) Validate() error {
	if strings.TrimSpace(q.Client.Name) == "" {
		return ErrClientNameRequired
	}
	return nil
}

// CheckAmounts rejects quotes read from storage or JSON whose amounts
// fall outside InRange.
func (q Quote) CheckAmounts() error {
	if !InRange(q.Discount) {
		return outOfRange("discount")
	}
	if !InRange(q.TaxRate) {
		return outOfRange("taxRate")
	}
	for _, it := range q.Items {
		if !InRange(it.Quantity) {
			return outOfRange("qty")
		}
		if !InRange(it.UnitPrice) {
			return outOfRange("unitPrice")
		}
	}
	return nil
}

func (q *Quote) AddItem(kind Kind) LineItem {
	it := NewLineItem(kind)
	q.Items = append(q.Items, it)
	return it
}

func (q *Quote) RemoveItem(id string) error {
	idx := q.itemIndex(id)
	if idx < 0 {
		return itemNotFound(id)
	}
	q.Items = append(q.Items[:idx:idx], q.Items[idx+1:]...)
	return nil
}

// UpdateItem applies one edited cell of a line. Amount fields coerce bad
// input to zero; kind rejects unknown values.
func (q *Quote) UpdateItem(id, field, value string) error {
	idx := q.itemIndex(id)
	if idx < 0 {
		return itemNotFound(id)
	}
	it := &q.Items[idx]
	switch field {
	case "kind", "type":
		k, err := ParseKind(value)
		if err != nil {
			return err
		}
		it.Kind = k
	case "description":
		it.Description = value
	case "unit":
		it.Unit = value
	case "quantity", "qty":
		it.Quantity = ParseNonNegative(value)
	case "unitPrice":
		it.UnitPrice = ParseNonNegative(value)
	default:
		return unknownField(field)
	}
	return nil
}

// SetField writes a top-level or client field addressed by path.
func (q *Quote) SetField(path, value string) error {
	switch path {
	case "issueDate":
		d, err := ParseDate(value)
		if err != nil {
			return err
		}
		q.IssueDate = d
	case "validDays":
		n, err := ParseValidDays(value)
		if err != nil {
			return err
		}
		q.ValidDays = n
	case "currency":
		c, err := ParseCurrency(value)
		if err != nil {
			return err
		}
		q.Currency = c
	case "serviceType":
		q.ServiceType = value
	case "frequency":
		q.Frequency = value
	case "notes":
		q.Notes = value
	case "terms":
		q.Terms = value
	case "taxEnabled":
		b, err := ParseBool(value)
		if err != nil {
			return err
		}
		q.TaxEnabled = b
	case "taxRate":
		q.TaxRate = ParseAmount(value)
	case "discount":
		q.Discount = ParseAmount(value)
	case "client.name":
		q.Client.Name = value
	case "client.id":
		q.Client.ID = value
	case "client.email":
		q.Client.Email = value
	case "client.phone":
		q.Client.Phone = value
	case "client.address":
		q.Client.Address = value
	default:
		return unknownField(path)
	}
	return nil
}

func (q *Quote) itemIndex(id string) int {
	for i := range q.Items {
		if q.Items[i].ID == id {
			return i
		}
	}
	return -1
}
