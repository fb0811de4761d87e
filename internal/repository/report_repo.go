package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkhub/internal/db"
	"parkhub/internal/entities"
)

// ReportRepository serves the snapshot queries behind the scheduled digests.
// Every method is a plain read: the jobs must never hold locks that could
// stall live booking traffic.
type ReportRepository struct {
	DB *sql.DB
}

func NewReportRepository(conn *sql.DB) *ReportRepository {
	return &ReportRepository{DB: conn}
}

// UsersNeedingReminder returns plain users whose most recent reservation
// started before the cutoff, or who have never booked at all.
func (r *ReportRepository) UsersNeedingReminder(cutoff time.Time) ([]db.User, error) {
	rows, err := r.DB.Query(`
		SELECT u.id, u.username, u.email, COALESCE(u.phone_number, '')
		FROM users u
		LEFT JOIN reservations res ON res.user_id = u.id
		WHERE u.role = $1
		GROUP BY u.id, u.username, u.email, u.phone_number
		HAVING MAX(res.start_time) IS NULL OR MAX(res.start_time) < $2
		ORDER BY u.id`, db.RoleUser, cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying users needing reminder: %w", err)
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		var user db.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PhoneNumber); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// PlainUsers lists every non-admin user for the summary digests.
func (r *ReportRepository) PlainUsers() ([]db.User, error) {
	rows, err := r.DB.Query(`SELECT id, username, email, COALESCE(phone_number, '')
		FROM users WHERE role = $1 ORDER BY id`, db.RoleUser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		var user db.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PhoneNumber); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CountLotsWithAvailability counts lots that currently have a free spot.
func (r *ReportRepository) CountLotsWithAvailability() (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(DISTINCT lot_id) FROM parking_spots WHERE status = $1`,
		db.SpotAvailable).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting lots with availability: %w", err)
	}
	return count, nil
}

// ActivitySince aggregates a user's reservations started at or after since.
func (r *ReportRepository) ActivitySince(userID int, since time.Time) (*entities.ActivitySummary, error) {
	summary := &entities.ActivitySummary{MostUsedLot: "N/A"}

	err := r.DB.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(EXTRACT(EPOCH FROM (end_time - start_time)) / 3600) FILTER (WHERE end_time IS NOT NULL), 0),
			COALESCE(SUM(cost), 0)
		FROM reservations
		WHERE user_id = $1 AND start_time >= $2`, userID, since).
		Scan(&summary.Reservations, &summary.TotalHours, &summary.TotalCost)
	if err != nil {
		return nil, fmt.Errorf("aggregating activity for user %d: %w", userID, err)
	}
	if summary.Reservations == 0 {
		return summary, nil
	}

	err = r.DB.QueryRow(`
		SELECT l.name
		FROM reservations r
		JOIN parking_spots s ON s.id = r.spot_id
		JOIN parking_lots l ON l.id = s.lot_id
		WHERE r.user_id = $1 AND r.start_time >= $2
		GROUP BY l.name
		ORDER BY COUNT(*) DESC, l.name
		LIMIT 1`, userID, since).Scan(&summary.MostUsedLot)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("finding most used lot for user %d: %w", userID, err)
	}
	return summary, nil
}
