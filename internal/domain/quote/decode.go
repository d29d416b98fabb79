package quote

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Decode reads a complete quote from JSON. Fields absent from the input
// keep the values a new quote would have; items are taken as given.
func Decode(data []byte, d Defaults, now time.Time) (Quote, error) {
	q := New("", now, d)
	q.Items = nil
	if err := json.Unmarshal(data, &q); err != nil {
		return Quote{}, fmt.Errorf("decode quote: %w", err)
	}
	if err := q.CheckAmounts(); err != nil {
		return Quote{}, err
	}
	if _, err := ParseCurrency(string(q.Currency)); err != nil {
		return Quote{}, err
	}
	if q.ValidDays < 1 {
		return Quote{}, invalid("validDays", fmt.Sprint(q.ValidDays))
	}
	for i := range q.Items {
		it := &q.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if it.Kind == "" {
			it.Kind = KindService
		}
		k, err := ParseKind(string(it.Kind))
		if err != nil {
			return Quote{}, err
		}
		it.Kind = k
		if it.Quantity.IsNegative() {
			return Quote{}, invalid("qty", it.Quantity.String())
		}
		if it.UnitPrice.IsNegative() {
			return Quote{}, invalid("unitPrice", it.UnitPrice.String())
		}
	}
	return q, nil
}
