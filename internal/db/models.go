package db

import "time"

// SpotStatus is the two-state occupancy machine for a parking spot.
type SpotStatus string

const (
	SpotAvailable SpotStatus = "available"
	SpotOccupied  SpotStatus = "occupied"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           int
	Username     string
	PasswordHash string
	Email        string
	PhoneNumber  string // optional WhatsApp contact, empty when none is on file
	Role         string
}

type ParkingLot struct {
	ID           int
	Name         string
	Address      string
	PinCode      string
	PricePerHour float64
	TotalSpots   int
}

type ParkingSpot struct {
	ID     int
	LotID  int
	Status SpotStatus
}

// Reservation is open while EndTime is nil. EndTime and Cost are set exactly
// once, when the reservation is closed; the row is never mutated after that.
type Reservation struct {
	ID        int
	SpotID    int
	UserID    int
	StartTime time.Time
	EndTime   *time.Time
	Cost      *float64
}
