package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"tomatocr/cotizador/internal/domain/quote"
	"tomatocr/cotizador/internal/domain/quote/gateway"
)

const upsertQuoteSQL = `
INSERT INTO cotizaciones (
	numero_cotizacion, fecha_emision, cliente_nombre, cliente_datos, moneda,
	tipo_servicio, frecuencia, validez_dias, notes, terminos,
	descuento, tasa_iva, subtotal, iva, total, items
) VALUES (
	$1, NULLIF($2, '')::date, $3, $4::jsonb, $5,
	$6, $7, $8, $9, $10,
	$11::numeric, $12::numeric, $13::numeric, $14::numeric, $15::numeric, $16::jsonb
)
ON CONFLICT (numero_cotizacion) DO UPDATE SET
	fecha_emision  = EXCLUDED.fecha_emision,
	cliente_nombre = EXCLUDED.cliente_nombre,
	cliente_datos  = EXCLUDED.cliente_datos,
	moneda         = EXCLUDED.moneda,
	tipo_servicio  = EXCLUDED.tipo_servicio,
	frecuencia     = EXCLUDED.frecuencia,
	validez_dias   = EXCLUDED.validez_dias,
	notes          = EXCLUDED.notes,
	terminos       = EXCLUDED.terminos,
	descuento      = EXCLUDED.descuento,
	tasa_iva       = EXCLUDED.tasa_iva,
	subtotal       = EXCLUDED.subtotal,
	iva            = EXCLUDED.iva,
	total          = EXCLUDED.total,
	items          = EXCLUDED.items`

const selectQuoteSQL = `
SELECT id::text, numero_cotizacion, COALESCE(fecha_emision::text, ''), cliente_nombre,
	cliente_datos::text, moneda, COALESCE(tipo_servicio, ''), COALESCE(frecuencia, ''),
	COALESCE(validez_dias, 0), COALESCE(notes, ''), COALESCE(terminos, ''),
	descuento::text, tasa_iva::text, subtotal::text, iva::text, total::text,
	items::text, created_at
FROM cotizaciones
WHERE id = $1`

const listRecentSQL = `
SELECT id::text, numero_cotizacion, cliente_nombre, COALESCE(fecha_emision::text, ''),
	moneda, total::text, created_at
FROM cotizaciones
ORDER BY created_at DESC
LIMIT $1`

// Quotes is the gateway.Repository backed by a direct database connection.
type Quotes struct {
	db *DB
}

func NewQuotes(db *DB) *Quotes { return &Quotes{db: db} }

func (q *Quotes) Upsert(ctx context.Context, r gateway.Record) error {
	client, err := json.Marshal(r.Client)
	if err != nil {
		return err
	}
	items, err := json.Marshal(r.Items)
	if err != nil {
		return err
	}
	_, err = q.db.Pool.Exec(ctx, upsertQuoteSQL,
		r.Number, r.IssueDate, r.ClientName, string(client), r.Currency,
		r.ServiceType, r.Frequency, r.ValidDays, r.Notes, r.Terms,
		nullString(r.Discount), nullString(r.TaxRate),
		r.Subtotal.String(), r.Tax.String(), r.Total.String(), string(items),
	)
	return err
}

func (q *Quotes) ListRecent(ctx context.Context, limit int) ([]gateway.Summary, error) {
	rows, err := q.db.Pool.Query(ctx, listRecentSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []gateway.Summary{}
	for rows.Next() {
		var (
			s       gateway.Summary
			id      string
			total   string
			created time.Time
		)
		if err := rows.Scan(&id, &s.Number, &s.ClientName, &s.IssueDate, &s.Currency, &total, &created); err != nil {
			return nil, err
		}
		s.ID = gateway.RecordID(id)
		if s.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("quote %s total: %w", s.Number, err)
		}
		s.CreatedAt = &created
		out = append(out, s)
	}
	return out, rows.Err()
}

func (q *Quotes) Get(ctx context.Context, id string) (gateway.Record, error) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return gateway.Record{}, gateway.ErrNotFound
	}
	var row recordRow
	err = q.db.Pool.QueryRow(ctx, selectQuoteSQL, key).Scan(
		&row.ID, &row.Number, &row.IssueDate, &row.ClientName,
		&row.Client, &row.Currency, &row.ServiceType, &row.Frequency,
		&row.ValidDays, &row.Notes, &row.Terms,
		&row.Discount, &row.TaxRate, &row.Subtotal, &row.Tax, &row.Total,
		&row.Items, &row.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return gateway.Record{}, gateway.ErrNotFound
	}
	if err != nil {
		return gateway.Record{}, err
	}
	return row.record()
}

// AccessSecret reads the PIN row from config_global.
func (q *Quotes) AccessSecret(ctx context.Context) (string, error) {
	var pin string
	err := q.db.Pool.QueryRow(ctx, `SELECT valor FROM config_global WHERE clave = 'pin_acceso'`).Scan(&pin)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("config_global: pin_acceso not set")
	}
	return pin, err
}

// recordRow holds the text form of one cotizaciones row.
type recordRow struct {
	ID          string
	Number      string
	IssueDate   string
	ClientName  string
	Client      *string
	Currency    string
	ServiceType string
	Frequency   string
	ValidDays   int
	Notes       string
	Terms       string
	Discount    *string
	TaxRate     *string
	Subtotal    string
	Tax         string
	Total       string
	Items       string
	CreatedAt   time.Time
}

func (r recordRow) record() (gateway.Record, error) {
	rec := gateway.Record{
		ID:          gateway.RecordID(r.ID),
		Number:      r.Number,
		IssueDate:   r.IssueDate,
		ClientName:  r.ClientName,
		Currency:    r.Currency,
		ServiceType: r.ServiceType,
		Frequency:   r.Frequency,
		ValidDays:   r.ValidDays,
		Notes:       r.Notes,
		Terms:       r.Terms,
		CreatedAt:   &r.CreatedAt,
	}
	if r.Client != nil {
		var c quote.Client
		if err := json.Unmarshal([]byte(*r.Client), &c); err != nil {
			return rec, fmt.Errorf("quote %s client: %w", r.Number, err)
		}
		rec.Client = &c
	}
	if err := json.Unmarshal([]byte(r.Items), &rec.Items); err != nil {
		return rec, fmt.Errorf("quote %s items: %w", r.Number, err)
	}

	var err error
	if rec.Discount, err = parseNull(r.Discount); err != nil {
		return rec, err
	}
	if rec.TaxRate, err = parseNull(r.TaxRate); err != nil {
		return rec, err
	}
	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{{&rec.Subtotal, r.Subtotal}, {&rec.Tax, r.Tax}, {&rec.Total, r.Total}} {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return rec, fmt.Errorf("quote %s amount %q: %w", r.Number, f.src, err)
		}
	}
	return rec, nil
}

func nullString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseNull(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
