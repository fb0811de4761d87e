package repository

import (
	"database/sql"
	"fmt"

	"parkhub/internal/db"
	"parkhub/internal/entities"
	apperrors "parkhub/internal/errors"
)

type LotRepository struct {
	DB *sql.DB
}

func NewLotRepository(conn *sql.DB) *LotRepository {
	return &LotRepository{DB: conn}
}

// CreateWithSpots inserts the lot and provisions exactly TotalSpots available
// spots in one transaction, filling in the generated lot id.
func (r *LotRepository) CreateWithSpots(lot *db.ParkingLot) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`INSERT INTO parking_lots (name, address, pin_code, price_per_hour, total_spots)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		lot.Name, lot.Address, lot.PinCode, lot.PricePerHour, lot.TotalSpots).Scan(&lot.ID)
	if err != nil {
		return fmt.Errorf("inserting lot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO parking_spots (lot_id, status) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("preparing spot insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < lot.TotalSpots; i++ {
		if _, err := stmt.Exec(lot.ID, db.SpotAvailable); err != nil {
			return fmt.Errorf("provisioning spot %d of %d: %w", i+1, lot.TotalSpots, err)
		}
	}
	return tx.Commit()
}

// Delete removes the lot and all of its spots. The spot rows are locked first
// so a concurrent claim cannot slip in between the occupancy check and the
// delete.
func (r *LotRepository) Delete(lotID int) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM parking_lots WHERE id = $1)`, lotID).Scan(&exists); err != nil {
		return fmt.Errorf("checking lot %d: %w", lotID, err)
	}
	if !exists {
		return apperrors.ErrLotNotFound
	}

	rows, err := tx.Query(`SELECT status FROM parking_spots WHERE lot_id = $1 FOR UPDATE`, lotID)
	if err != nil {
		return fmt.Errorf("locking spots of lot %d: %w", lotID, err)
	}
	occupied := 0
	for rows.Next() {
		var status db.SpotStatus
		if err := rows.Scan(&status); err != nil {
			rows.Close()
			return err
		}
		if status == db.SpotOccupied {
			occupied++
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if occupied > 0 {
		return apperrors.ErrLotHasOccupiedSpots
	}

	if _, err := tx.Exec(`DELETE FROM parking_spots WHERE lot_id = $1`, lotID); err != nil {
		return fmt.Errorf("deleting spots of lot %d: %w", lotID, err)
	}
	if _, err := tx.Exec(`DELETE FROM parking_lots WHERE id = $1`, lotID); err != nil {
		return fmt.Errorf("deleting lot %d: %w", lotID, err)
	}
	return tx.Commit()
}

func (r *LotRepository) List() ([]entities.LotResponse, error) {
	rows, err := r.DB.Query(`SELECT id, name, address, pin_code, price_per_hour, total_spots
		FROM parking_lots ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []entities.LotResponse
	for rows.Next() {
		var lot entities.LotResponse
		if err := rows.Scan(&lot.ID, &lot.Name, &lot.Address, &lot.PinCode, &lot.PricePerHour, &lot.TotalSpots); err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

// AvailableLots returns lots that have at least one available spot.
func (r *LotRepository) AvailableLots() ([]entities.AvailableLot, error) {
	rows, err := r.DB.Query(`
		SELECT l.id, l.name, l.address, l.price_per_hour, COUNT(s.id)
		FROM parking_lots l
		JOIN parking_spots s ON s.lot_id = l.id AND s.status = $1
		GROUP BY l.id, l.name, l.address, l.price_per_hour
		ORDER BY l.id`, db.SpotAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []entities.AvailableLot
	for rows.Next() {
		var lot entities.AvailableLot
		if err := rows.Scan(&lot.ID, &lot.Name, &lot.Address, &lot.PricePerHour, &lot.AvailableSpots); err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

// StatusSummary reports available and occupied counts per lot from a single
// consistent snapshot.
func (r *LotRepository) StatusSummary() ([]entities.SpotStatusSummary, error) {
	rows, err := r.DB.Query(`
		SELECT l.id, l.name, l.total_spots,
			COUNT(s.id) FILTER (WHERE s.status = $1),
			COUNT(s.id) FILTER (WHERE s.status = $2)
		FROM parking_lots l
		LEFT JOIN parking_spots s ON s.lot_id = l.id
		GROUP BY l.id, l.name, l.total_spots
		ORDER BY l.id`, db.SpotAvailable, db.SpotOccupied)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []entities.SpotStatusSummary
	for rows.Next() {
		var s entities.SpotStatusSummary
		if err := rows.Scan(&s.LotID, &s.LotName, &s.TotalSpots, &s.Available, &s.Occupied); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
