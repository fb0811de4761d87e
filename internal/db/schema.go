package db

import (
	"database/sql"
	"fmt"
)

// The partial unique indexes back the ledger invariants at the storage level:
// at most one open reservation per user and per spot.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		email         TEXT NOT NULL,
		phone_number  TEXT,
		role          TEXT NOT NULL DEFAULT 'user'
	)`,
	`CREATE TABLE IF NOT EXISTS parking_lots (
		id             SERIAL PRIMARY KEY,
		name           TEXT NOT NULL,
		address        TEXT NOT NULL,
		pin_code       TEXT NOT NULL,
		price_per_hour NUMERIC(10,2) NOT NULL,
		total_spots    INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS parking_spots (
		id     SERIAL PRIMARY KEY,
		lot_id INT NOT NULL REFERENCES parking_lots(id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'available'
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id         SERIAL PRIMARY KEY,
		spot_id    INT NOT NULL REFERENCES parking_spots(id) ON DELETE CASCADE,
		user_id    INT NOT NULL REFERENCES users(id),
		start_time TIMESTAMPTZ NOT NULL,
		end_time   TIMESTAMPTZ,
		cost       NUMERIC(10,2)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_spots_lot_status ON parking_spots (lot_id, status)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_open_reservation_per_user
		ON reservations (user_id) WHERE end_time IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_open_reservation_per_spot
		ON reservations (spot_id) WHERE end_time IS NULL`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func EnsureSchema(conn *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}
