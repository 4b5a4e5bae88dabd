package postgres

import (
	"context"
	"fmt"
)

// Schema kept in lockstep with the repositories. The CHECK on
// cantidad_disponible backs the ledger invariant at the storage layer.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS ingredientes (
		id SERIAL PRIMARY KEY,
		nombre TEXT NOT NULL UNIQUE,
		unidad_medida TEXT NOT NULL,
		cantidad_disponible NUMERIC(12,3) NOT NULL DEFAULT 0 CHECK (cantidad_disponible >= 0),
		cantidad_minima NUMERIC(12,3) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS menu (
		id SERIAL PRIMARY KEY,
		nombre TEXT NOT NULL UNIQUE,
		descripcion TEXT NOT NULL DEFAULT '',
		precio NUMERIC(10,2) NOT NULL CHECK (precio >= 0),
		disponible BOOLEAN NOT NULL DEFAULT TRUE,
		categoria TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_ingredientes (
		menu_id INT NOT NULL REFERENCES menu(id) ON DELETE CASCADE,
		ingrediente_id INT NOT NULL REFERENCES ingredientes(id),
		cantidad_requerida NUMERIC(12,3) NOT NULL CHECK (cantidad_requerida > 0),
		PRIMARY KEY (menu_id, ingrediente_id)
	)`,
	`CREATE TABLE IF NOT EXISTS pedidos (
		id SERIAL PRIMARY KEY,
		cliente_id INT NOT NULL,
		estado TEXT NOT NULL DEFAULT 'pendiente',
		total NUMERIC(10,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS pedido_items (
		id SERIAL PRIMARY KEY,
		pedido_id INT NOT NULL REFERENCES pedidos(id) ON DELETE CASCADE,
		menu_id INT NOT NULL REFERENCES menu(id),
		nombre TEXT NOT NULL,
		cantidad INT NOT NULL CHECK (cantidad > 0),
		precio_unitario NUMERIC(10,2) NOT NULL,
		subtotal NUMERIC(10,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pedido_status_log (
		id SERIAL PRIMARY KEY,
		pedido_id INT NOT NULL REFERENCES pedidos(id) ON DELETE CASCADE,
		estado TEXT NOT NULL,
		changed_by TEXT NOT NULL,
		changed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pedidos_cliente ON pedidos(cliente_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pedido_items_pedido ON pedido_items(pedido_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pedido_status_log_pedido ON pedido_status_log(pedido_id)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
