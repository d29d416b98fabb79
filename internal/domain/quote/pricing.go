package quote

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	TaxableBase decimal.Decimal `json:"taxableBase"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

func (t Totals) Equal(o Totals) bool {
	return t.Subtotal.Equal(o.Subtotal) &&
		t.Discount.Equal(o.Discount) &&
		t.TaxableBase.Equal(o.TaxableBase) &&
		t.Tax.Equal(o.Tax) &&
		t.Total.Equal(o.Total)
}

// ComputeTotals prices a set of lines. A discount larger than the
// subtotal is accepted and the taxable base is clamped at zero.
func ComputeTotals(items []LineItem, discount decimal.Decimal, taxEnabled bool, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	discount = decimal.Max(decimal.Zero, discount)
	base := decimal.Max(decimal.Zero, subtotal.Sub(discount))
	tax := decimal.Zero
	if taxEnabled {
		tax = base.Mul(taxRate).Div(hundred)
	}
	return Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		TaxableBase: base,
		Tax:         tax,
		Total:       base.Add(tax),
	}
}
