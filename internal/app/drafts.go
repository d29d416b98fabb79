package app

import (
	"context"

	"tomatocr/cotizador/internal/domain/quote"
	"tomatocr/cotizador/internal/domain/quote/store"
	"tomatocr/cotizador/internal/infra/observability"
)

// meteredDrafts counts draft writes.
type meteredDrafts struct {
	store.DraftStore
	metrics *observability.Metrics
}

func (d meteredDrafts) Save(ctx context.Context, q quote.Quote) error {
	err := d.DraftStore.Save(ctx, q)
	d.metrics.DraftWrite(err)
	return err
}
