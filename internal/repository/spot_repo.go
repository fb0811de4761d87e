package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"parkhub/internal/db"
	apperrors "parkhub/internal/errors"
)

// SpotRepository owns the occupancy state machine for parking spots. The claim
// and release primitives run inside a caller-supplied transaction so a spot
// flip commits or rolls back together with the reservation row that justifies
// it.
type SpotRepository struct {
	DB *sql.DB
}

func NewSpotRepository(conn *sql.DB) *SpotRepository {
	return &SpotRepository{DB: conn}
}

// ClaimLowestAvailable picks the available spot with the lowest id in the lot
// and marks it occupied. SKIP LOCKED makes concurrent claimers step past a row
// another transaction is taking, so each spot is won by exactly one caller and
// the loser moves on to the next available spot.
func (r *SpotRepository) ClaimLowestAvailable(tx *sql.Tx, lotID int) (int, error) {
	var spotID int
	err := tx.QueryRow(`
		SELECT id FROM parking_spots
		WHERE lot_id = $1 AND status = $2
		ORDER BY id
		LIMIT 1
		FOR UPDATE SKIP LOCKED`, lotID, db.SpotAvailable).Scan(&spotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperrors.ErrNoAvailableSpot
		}
		return 0, fmt.Errorf("selecting available spot in lot %d: %w", lotID, err)
	}

	if _, err := tx.Exec(`UPDATE parking_spots SET status = $1 WHERE id = $2`,
		db.SpotOccupied, spotID); err != nil {
		return 0, fmt.Errorf("marking spot %d occupied: %w", spotID, err)
	}
	return spotID, nil
}

// Release flips an occupied spot back to available. Releasing a spot that is
// not occupied is a caller error: release is only ever driven by closing the
// open reservation that holds the spot.
func (r *SpotRepository) Release(tx *sql.Tx, spotID int) error {
	res, err := tx.Exec(`UPDATE parking_spots SET status = $1 WHERE id = $2 AND status = $3`,
		db.SpotAvailable, spotID, db.SpotOccupied)
	if err != nil {
		return fmt.Errorf("releasing spot %d: %w", spotID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM parking_spots WHERE id = $1)`, spotID).Scan(&exists); err != nil {
			return fmt.Errorf("checking spot %d: %w", spotID, err)
		}
		if !exists {
			return apperrors.ErrSpotNotFound
		}
		return apperrors.ErrSpotNotOccupied
	}
	return nil
}
