package local

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomatocr/cotizador/internal/domain/quote"
	"tomatocr/cotizador/internal/infra/kv/sqlite"
)

func newKV(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDrafts_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	d := NewDrafts(newKV(t))

	_, err := d.Load(ctx)
	assert.ErrorIs(t, err, ErrNoDraft)

	q := quote.New("TCR-2026-0001", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), quote.DefaultSettings())
	q.Client.Name = "Ana Mora"
	q.Items[0].Quantity = decimal.NewFromInt(2)
	q.Items[0].UnitPrice = decimal.RequireFromString("12500.50")
	require.NoError(t, d.Save(ctx, q))

	got, err := d.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, q.Number, got.Number)
	assert.Equal(t, "Ana Mora", got.Client.Name)
	assert.Equal(t, "2026-03-09", got.IssueDate.String())
	require.Len(t, got.Items, 1)
	assert.True(t, q.Totals().Equal(got.Totals()))

	require.NoError(t, d.Clear(ctx))
	_, err = d.Load(ctx)
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestDrafts_LoadRejectsOutOfRangeAmounts(t *testing.T) {
	ctx := context.Background()
	store := newKV(t)
	draft := `{"quoteNumber":"TCR-2026-0001","issueDate":"2026-03-09","validDays":15,"currency":"CRC",` +
		`"items":[{"id":"a","type":"Servicio","qty":"1e50000000","unitPrice":"10"}]}`
	require.NoError(t, store.Set(ctx, DraftKey, []byte(draft)))

	_, err := NewDrafts(store).Load(ctx)
	assert.ErrorIs(t, err, quote.ErrInvalidValue)
}

func TestCounter(t *testing.T) {
	ctx := context.Background()
	store := newKV(t)
	c := NewCounter(store)

	n, err := c.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, store.Set(ctx, CounterKey, []byte("41")))
	n, err = c.Increment(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	require.NoError(t, store.Set(ctx, CounterKey, []byte("garbage")))
	n, err = c.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestPreferences_Theme(t *testing.T) {
	ctx := context.Background()
	p := NewPreferences(newKV(t))

	th, err := p.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, th)

	require.NoError(t, p.SetTheme(ctx, ThemeDark))
	th, err = p.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, th)

	assert.ErrorIs(t, p.SetTheme(ctx, Theme("neon")), ErrInvalidTheme)
}
