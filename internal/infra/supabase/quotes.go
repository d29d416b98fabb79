package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"tomatocr/cotizador/internal/domain/quote/gateway"
)

const (
	quotesTable  = "cotizaciones"
	configTable  = "config_global"
	pinConfigKey = "pin_acceso"
)

const summaryColumns = "id,numero_cotizacion,cliente_nombre,fecha_emision,moneda,total,created_at"

// Quotes is the gateway.Repository backed by the cotizaciones table.
type Quotes struct {
	c *Client
	// ExtendedColumns is set when the table has the descuento and tasa_iva
	// columns. Without it those fields are left out of upserts.
	ExtendedColumns bool
}

func NewQuotes(c *Client) *Quotes { return &Quotes{c: c} }

func (q *Quotes) Upsert(ctx context.Context, r gateway.Record) error {
	r.ID = ""
	r.CreatedAt = nil
	if !q.ExtendedColumns {
		r.Discount, r.TaxRate = nil, nil
	}
	req, err := q.c.newRequest(ctx, http.MethodPost, "/rest/v1/"+quotesTable+"?on_conflict=numero_cotizacion", r)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")
	return unwrapStatus(q.c.do(req, nil))
}

func (q *Quotes) ListRecent(ctx context.Context, limit int) ([]gateway.Summary, error) {
	values := url.Values{}
	values.Set("select", summaryColumns)
	values.Set("order", "created_at.desc")
	values.Set("limit", strconv.Itoa(limit))

	req, err := q.c.newRequest(ctx, http.MethodGet, "/rest/v1/"+quotesTable+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var rows []gateway.Summary
	if err := q.c.do(req, &rows); err != nil {
		return nil, unwrapStatus(err)
	}
	return rows, nil
}

func (q *Quotes) Get(ctx context.Context, id string) (gateway.Record, error) {
	values := url.Values{}
	values.Set("select", "*")
	values.Set("id", "eq."+id)
	values.Set("limit", "1")

	req, err := q.c.newRequest(ctx, http.MethodGet, "/rest/v1/"+quotesTable+"?"+values.Encode(), nil)
	if err != nil {
		return gateway.Record{}, err
	}
	var rows []gateway.Record
	if err := q.c.do(req, &rows); err != nil {
		return gateway.Record{}, unwrapStatus(err)
	}
	if len(rows) == 0 {
		return gateway.Record{}, gateway.ErrNotFound
	}
	return rows[0], nil
}

// AccessSecret reads the PIN row from config_global.
func (q *Quotes) AccessSecret(ctx context.Context) (string, error) {
	values := url.Values{}
	values.Set("select", "valor")
	values.Set("clave", "eq."+pinConfigKey)
	values.Set("limit", "1")

	req, err := q.c.newRequest(ctx, http.MethodGet, "/rest/v1/"+configTable+"?"+values.Encode(), nil)
	if err != nil {
		return "", err
	}
	var rows []struct {
		Valor string `json:"valor"`
	}
	if err := q.c.do(req, &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("%s: %s not set", configTable, pinConfigKey)
	}
	return rows[0].Valor, nil
}

// unwrapStatus keeps the remote message as the error text so callers
// can show it verbatim.
func unwrapStatus(err error) error {
	var se *StatusError
	if errors.As(err, &se) {
		return errors.New(se.Message)
	}
	return err
}
