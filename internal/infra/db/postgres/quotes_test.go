package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomatocr/cotizador/internal/domain/quote"
	"tomatocr/cotizador/internal/domain/quote/gateway"
)

func strPtr(s string) *string { return &s }

func TestRecordRow_Record(t *testing.T) {
	created := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	row := recordRow{
		ID:         "12",
		Number:     "TCR-2026-0012",
		IssueDate:  "2026-03-09",
		ClientName: "Ana",
		Client:     strPtr(`{"name":"Ana","phone":"8888-0000"}`),
		Currency:   "CRC",
		ValidDays:  15,
		Discount:   strPtr("25"),
		Subtotal:   "250",
		Tax:        "29.25",
		Total:      "254.25",
		Items:      `[{"id":"a","type":"Servicio","description":"Poda","unit":"Visita","qty":"2","unitPrice":"125"}]`,
		CreatedAt:  created,
	}

	rec, err := row.record()
	require.NoError(t, err)
	assert.Equal(t, gateway.RecordID("12"), rec.ID)
	require.NotNil(t, rec.Client)
	assert.Equal(t, "8888-0000", rec.Client.Phone)
	require.NotNil(t, rec.Discount)
	assert.Equal(t, "25", rec.Discount.String())
	assert.Nil(t, rec.TaxRate)
	assert.Equal(t, "254.25", rec.Total.String())
	require.Len(t, rec.Items, 1)
	assert.Equal(t, quote.KindService, rec.Items[0].Kind)

	q := rec.ToQuote(quote.DefaultSettings())
	assert.Equal(t, "254.25", q.Totals().Total.String())
}

func TestRecordRow_BadAmount(t *testing.T) {
	row := recordRow{Number: "X", Items: "[]", Subtotal: "abc", Tax: "0", Total: "0"}
	_, err := row.record()
	assert.Error(t, err)
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(nil))
	rate := decimal.NewFromInt(13)
	assert.Equal(t, "13", *nullString(&rate))
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := New(context.Background(), dsn)
	if err != nil {
		t.Skipf("Skipping test: %v", err)
	}
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestQuotes_UpsertGetList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewQuotes(db)

	number := "TEST-" + time.Now().UTC().Format("20060102150405.000000")
	t.Cleanup(func() {
		db.Pool.Exec(context.Background(), `DELETE FROM cotizaciones WHERE numero_cotizacion = $1`, number)
	})

	q := quote.New(number, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), quote.DefaultSettings())
	q.Client.Name = "Ana"
	q.Items[0].UnitPrice = decimal.NewFromInt(100)
	require.NoError(t, repo.Upsert(ctx, gateway.NewRecord(q)))

	q.Client.Name = "Ana María"
	require.NoError(t, repo.Upsert(ctx, gateway.NewRecord(q)))

	recent, err := repo.ListRecent(ctx, 20)
	require.NoError(t, err)
	var found *gateway.Summary
	for i := range recent {
		if recent[i].Number == number {
			found = &recent[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "Ana María", found.ClientName)

	rec, err := repo.Get(ctx, string(found.ID))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", rec.IssueDate)
	assert.Equal(t, "113", rec.Total.String())

	_, err = repo.Get(ctx, "not-a-number")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}
