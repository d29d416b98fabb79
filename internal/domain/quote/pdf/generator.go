package pdf

import "tomatocr/cotizador/internal/domain/quote"

// Generator turns a priced quote into a PDF document.
type Generator interface {
	Generate(q quote.Quote, totals quote.Totals) ([]byte, error)
}
