package quote

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts stay within ±1e15 with exponents in ±18. The exponent is checked
// before any comparison so out of range input is never expanded.
const maxExponent = 18

var maxAmount = decimal.New(1, 15)

// InRange reports whether d is an amount the model can hold.
func InRange(d decimal.Decimal) bool {
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return false
	}
	return d.Abs().LessThanOrEqual(maxAmount)
}

// ParseAmount reads a user supplied number. Empty, malformed, non-finite
// and out of range input yields zero. A lone comma is taken as the
// decimal separator ("12,5").
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !InRange(d) {
		return decimal.Zero
	}
	return d
}

func ParseNonNegative(s string) decimal.Decimal {
	return decimal.Max(decimal.Zero, ParseAmount(s))
}

func ParseValidDays(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, invalid("validDays", s)
	}
	return n, nil
}

func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "si", "sí":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, invalid("taxEnabled", s)
	}
	return b, nil
}
