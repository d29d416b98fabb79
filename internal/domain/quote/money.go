package quote

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

type Currency string

const (
	CRC Currency = "CRC"
	USD Currency = "USD"
)

type moneyFormat struct {
	locale  language.Tag
	symbol  string
	group   string
	decimal string
}

// Separators are fixed per currency so output does not depend on the
// CLDR data shipped with the binary.
var moneyFormats = map[Currency]moneyFormat{
	CRC: {locale: language.MustParse("es-CR"), symbol: "₡", group: "\u00a0", decimal: ","},
	USD: {locale: language.AmericanEnglish, symbol: "$", group: ",", decimal: "."},
}

func SupportedCurrencies() []Currency {
	return []Currency{CRC, USD}
}

// ParseCurrency validates an ISO 4217 code and checks that it has a
// money format.
func ParseCurrency(s string) (Currency, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(s))
	if err != nil {
		return "", invalid("currency", s)
	}
	c := Currency(unit.String())
	if _, ok := moneyFormats[c]; !ok {
		return "", invalid("currency", s)
	}
	return c, nil
}

func (c Currency) format() moneyFormat {
	if f, ok := moneyFormats[c]; ok {
		return f
	}
	f := moneyFormats[CRC]
	f.symbol = string(c) + " "
	return f
}

func (c Currency) Locale() language.Tag {
	return c.format().locale
}

// FormatMoney renders amount rounded to two decimals with the currency
// symbol, e.g. "₡1 234,50" (no-break space) or "$1,234.50".
func FormatMoney(amount decimal.Decimal, c Currency) string {
	f := c.format()
	return formatWith(amount, f.symbol, f)
}

// FormatMoneyCode is FormatMoney with the ISO code in place of the
// symbol, for fonts that lack the colón glyph.
func FormatMoneyCode(amount decimal.Decimal, c Currency) string {
	f := c.format()
	return formatWith(amount, string(c)+" ", f)
}

func formatWith(amount decimal.Decimal, symbol string, f moneyFormat) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if amount.Round(2).IsNegative() {
		b.WriteString("-")
	}
	b.WriteString(symbol)
	b.WriteString(groupThousands(intPart, f.group))
	b.WriteString(f.decimal)
	b.WriteString(frac)
	return b.String()
}

func groupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
