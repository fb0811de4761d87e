package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkhub/internal/entities"
	apperrors "parkhub/internal/errors"
	"parkhub/internal/pricing"
)

// ReservationRepository records the reservation lifecycle. Open and Close are
// single transactions that also drive the spot state machine, so occupancy can
// never drift from the set of open reservations.
type ReservationRepository struct {
	DB    *sql.DB
	Spots *SpotRepository
}

func NewReservationRepository(conn *sql.DB, spots *SpotRepository) *ReservationRepository {
	return &ReservationRepository{DB: conn, Spots: spots}
}

// Open claims the lowest available spot in the lot and inserts the reservation
// row in one transaction. The duplicate-reservation check runs before the
// claim is attempted; if anything after the claim fails, the rollback reverts
// the spot, so an occupied spot without an open reservation cannot survive.
func (r *ReservationRepository) Open(userID, lotID int, start time.Time) (*entities.OpenedReservation, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var username, contact string
	err = tx.QueryRow(`SELECT username, COALESCE(phone_number, '') FROM users WHERE id = $1`, userID).
		Scan(&username, &contact)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user %d: %w", userID, err)
	}

	var hasOpen bool
	err = tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM reservations WHERE user_id = $1 AND end_time IS NULL)`, userID).
		Scan(&hasOpen)
	if err != nil {
		return nil, fmt.Errorf("checking open reservation for user %d: %w", userID, err)
	}
	if hasOpen {
		return nil, apperrors.ErrDuplicateActiveReservation
	}

	var lotName string
	err = tx.QueryRow(`SELECT name FROM parking_lots WHERE id = $1`, lotID).Scan(&lotName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrLotNotFound
		}
		return nil, fmt.Errorf("querying lot %d: %w", lotID, err)
	}

	spotID, err := r.Spots.ClaimLowestAvailable(tx, lotID)
	if err != nil {
		return nil, err
	}

	var reservationID int
	err = tx.QueryRow(`INSERT INTO reservations (spot_id, user_id, start_time) VALUES ($1, $2, $3) RETURNING id`,
		spotID, userID, start).Scan(&reservationID)
	if err != nil {
		return nil, fmt.Errorf("inserting reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing booking: %w", err)
	}

	return &entities.OpenedReservation{
		ReservationID: reservationID,
		SpotID:        spotID,
		LotID:         lotID,
		LotName:       lotName,
		StartTime:     start,
		Username:      username,
		Contact:       contact,
	}, nil
}

// Close locks the user's open reservation, stamps the end time and cost, and
// releases the spot, all in one transaction.
func (r *ReservationRepository) Close(userID int, end time.Time) (*entities.ClosedReservation, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		reservationID int
		spotID        int
		start         time.Time
		rate          float64
		lotName       string
		username      string
		contact       string
	)
	err = tx.QueryRow(`
		SELECT r.id, r.spot_id, r.start_time, l.price_per_hour, l.name,
			u.username, COALESCE(u.phone_number, '')
		FROM reservations r
		JOIN parking_spots s ON s.id = r.spot_id
		JOIN parking_lots l ON l.id = s.lot_id
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1 AND r.end_time IS NULL
		FOR UPDATE OF r`, userID).
		Scan(&reservationID, &spotID, &start, &rate, &lotName, &username, &contact)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNoActiveReservation
		}
		return nil, fmt.Errorf("locating open reservation for user %d: %w", userID, err)
	}

	cost, err := pricing.ComputeCost(start, end, rate)
	if err != nil {
		return nil, fmt.Errorf("pricing reservation %d: %w", reservationID, err)
	}

	if _, err := tx.Exec(`UPDATE reservations SET end_time = $1, cost = $2 WHERE id = $3`,
		end, cost, reservationID); err != nil {
		return nil, fmt.Errorf("closing reservation %d: %w", reservationID, err)
	}

	if err := r.Spots.Release(tx, spotID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing release: %w", err)
	}

	return &entities.ClosedReservation{
		ReservationID: reservationID,
		SpotID:        spotID,
		LotName:       lotName,
		StartTime:     start,
		EndTime:       end,
		Cost:          cost,
		DurationHours: end.Sub(start).Hours(),
		Username:      username,
		Contact:       contact,
	}, nil
}

// Active returns the user's open reservation, if any.
func (r *ReservationRepository) Active(userID int) (*entities.ActiveReservation, error) {
	var res entities.ActiveReservation
	err := r.DB.QueryRow(`
		SELECT r.id, r.spot_id, l.name, r.start_time
		FROM reservations r
		JOIN parking_spots s ON s.id = r.spot_id
		JOIN parking_lots l ON l.id = s.lot_id
		WHERE r.user_id = $1 AND r.end_time IS NULL`, userID).
		Scan(&res.ReservationID, &res.SpotID, &res.LotName, &res.StartTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNoActiveReservation
		}
		return nil, fmt.Errorf("querying active reservation for user %d: %w", userID, err)
	}
	return &res, nil
}

// History returns all of the user's reservations, newest first.
func (r *ReservationRepository) History(userID int) ([]entities.HistoryEntry, error) {
	rows, err := r.DB.Query(`
		SELECT r.id, r.spot_id, l.name, r.start_time, r.end_time, r.cost
		FROM reservations r
		JOIN parking_spots s ON s.id = r.spot_id
		JOIN parking_lots l ON l.id = s.lot_id
		WHERE r.user_id = $1
		ORDER BY r.start_time DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entities.HistoryEntry
	for rows.Next() {
		var (
			entry   entities.HistoryEntry
			endTime sql.NullTime
			cost    sql.NullFloat64
		)
		if err := rows.Scan(&entry.ReservationID, &entry.SpotID, &entry.LotName, &entry.StartTime, &endTime, &cost); err != nil {
			return nil, err
		}
		if endTime.Valid {
			entry.EndTime = &endTime.Time
		}
		if cost.Valid {
			entry.Cost = &cost.Float64
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListCurrent returns every open reservation plus those closed at or after
// since, newest first.
func (r *ReservationRepository) ListCurrent(since time.Time) ([]entities.AdminReservation, error) {
	rows, err := r.DB.Query(`
		SELECT r.id, l.name, r.spot_id, u.username, u.email, r.start_time, r.end_time, r.cost
		FROM reservations r
		JOIN parking_spots s ON s.id = r.spot_id
		JOIN parking_lots l ON l.id = s.lot_id
		JOIN users u ON u.id = r.user_id
		WHERE r.end_time IS NULL OR r.end_time >= $1
		ORDER BY r.start_time DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []entities.AdminReservation
	for rows.Next() {
		var (
			res     entities.AdminReservation
			endTime sql.NullTime
			cost    sql.NullFloat64
		)
		if err := rows.Scan(&res.ReservationID, &res.LotName, &res.SpotID, &res.Username, &res.UserEmail,
			&res.StartTime, &endTime, &cost); err != nil {
			return nil, err
		}
		if endTime.Valid {
			res.EndTime = &endTime.Time
			res.Status = "Completed"
			duration := pricing.Round2(endTime.Time.Sub(res.StartTime).Hours())
			res.DurationHours = &duration
		} else {
			res.Status = "Active"
		}
		if cost.Valid {
			res.Cost = &cost.Float64
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
