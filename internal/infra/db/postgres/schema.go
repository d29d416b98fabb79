package postgres

import (
	"context"
	"fmt"
)

func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS cotizaciones (
			id                BIGSERIAL PRIMARY KEY,
			numero_cotizacion TEXT NOT NULL UNIQUE,
			fecha_emision     DATE,
			cliente_nombre    TEXT NOT NULL,
			cliente_datos     JSONB,
			moneda            TEXT NOT NULL DEFAULT 'CRC',
			tipo_servicio     TEXT,
			frecuencia        TEXT,
			validez_dias      INTEGER,
			notes             TEXT,
			terminos          TEXT,
			descuento         NUMERIC,
			tasa_iva          NUMERIC,
			subtotal          NUMERIC NOT NULL DEFAULT 0,
			iva               NUMERIC NOT NULL DEFAULT 0,
			total             NUMERIC NOT NULL DEFAULT 0,
			items             JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS cotizaciones_created_at_idx ON cotizaciones (created_at DESC)`,
		`ALTER TABLE cotizaciones ADD COLUMN IF NOT EXISTS descuento NUMERIC`,
		`ALTER TABLE cotizaciones ADD COLUMN IF NOT EXISTS tasa_iva NUMERIC`,
		`CREATE TABLE IF NOT EXISTS config_global (
			clave TEXT PRIMARY KEY,
			valor TEXT NOT NULL
		)`,
	}
}

// Migrate creates the tables the builder reads and writes. It is safe to
// run repeatedly.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range migrations() {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
