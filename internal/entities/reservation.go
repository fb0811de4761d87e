package entities

import "time"

type BookRequest struct {
	LotID int `json:"lot_id"`
}

type BookResponse struct {
	Message       string    `json:"message"`
	ReservationID int       `json:"reservation_id"`
	SpotID        int       `json:"spot_id"`
	StartTime     time.Time `json:"start_time"`
}

type ReleaseResponse struct {
	Message string  `json:"message"`
	SpotID  int     `json:"spot_id"`
	Cost    float64 `json:"cost"`
}

type ActiveReservation struct {
	ReservationID int       `json:"reservation_id"`
	SpotID        int       `json:"spot_id"`
	LotName       string    `json:"lot_name"`
	StartTime     time.Time `json:"start_time"`
}

type HistoryEntry struct {
	ReservationID int        `json:"reservation_id"`
	SpotID        int        `json:"spot_id"`
	LotName       string     `json:"lot_name"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Cost          *float64   `json:"cost"`
}

// AdminReservation is the admin view of one active or recently closed
// reservation.
type AdminReservation struct {
	ReservationID int        `json:"reservation_id"`
	LotName       string     `json:"lot_name"`
	SpotID        int        `json:"spot_id"`
	Username      string     `json:"user_username"`
	UserEmail     string     `json:"user_email"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Cost          *float64   `json:"cost"`
	Status        string     `json:"status"`
	DurationHours *float64   `json:"duration_hours"`
}

// OpenedReservation carries what the booking flow needs after its transaction
// has committed, including the contact for the notification boundary.
type OpenedReservation struct {
	ReservationID int
	SpotID        int
	LotID         int
	LotName       string
	StartTime     time.Time
	Username      string
	Contact       string
}

// ClosedReservation is the release-flow counterpart of OpenedReservation.
type ClosedReservation struct {
	ReservationID int
	SpotID        int
	LotName       string
	StartTime     time.Time
	EndTime       time.Time
	Cost          float64
	DurationHours float64
	Username      string
	Contact       string
}
