package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

type seedLot struct {
	name    string
	address string
	pinCode string
	rate    float64
	spots   int
}

var sampleLots = []seedLot{
	{"Central Mall Parking", "123 Main Street, City Center", "123456", 50.0, 20},
	{"Downtown Plaza", "456 Oak Avenue, Downtown", "654321", 40.0, 15},
	{"Airport Parking", "789 Airport Road, Terminal 1", "789012", 80.0, 30},
}

// Seed provisions the bootstrap admin, a demo user and sample lots. Every step
// is guarded by an existence check, so running it on every startup is safe.
func Seed(conn *sql.DB) error {
	if err := seedUser(conn, "anand", "anand123", "anand@admin.com", RoleAdmin); err != nil {
		return err
	}
	if err := seedUser(conn, "user", "user123", "user@example.com", RoleUser); err != nil {
		return err
	}
	return seedLots(conn)
}

func seedUser(conn *sql.DB, username, password, email, role string) error {
	var id int
	err := conn.QueryRow(`SELECT id FROM users WHERE username = $1`, username).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking seed user %s: %w", username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}
	_, err = conn.Exec(`INSERT INTO users (username, password_hash, email, role) VALUES ($1, $2, $3, $4)`,
		username, string(hash), email, role)
	if err != nil {
		return fmt.Errorf("creating seed user %s: %w", username, err)
	}
	log.Printf("Seed: created %s user %q", role, username)
	return nil
}

func seedLots(conn *sql.DB) error {
	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM parking_lots`).Scan(&count); err != nil {
		return fmt.Errorf("counting lots: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, lot := range sampleLots {
		var lotID int
		err := tx.QueryRow(`INSERT INTO parking_lots (name, address, pin_code, price_per_hour, total_spots)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			lot.name, lot.address, lot.pinCode, lot.rate, lot.spots).Scan(&lotID)
		if err != nil {
			return fmt.Errorf("creating sample lot %q: %w", lot.name, err)
		}
		for i := 0; i < lot.spots; i++ {
			if _, err := tx.Exec(`INSERT INTO parking_spots (lot_id, status) VALUES ($1, $2)`,
				lotID, SpotAvailable); err != nil {
				return fmt.Errorf("provisioning spots for %q: %w", lot.name, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Seed: created %d sample parking lots", len(sampleLots))
	return nil
}
