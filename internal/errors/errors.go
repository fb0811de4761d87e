// Package errors defines the failure kinds surfaced by the reservation and
// allocation engine, plus their mapping onto HTTP status codes.
package errors

import (
	"errors"
	"net/http"
)

var (
	// Lot lifecycle violations.
	ErrInvalidLotParameters = errors.New("invalid lot parameters")
	ErrLotNotFound          = errors.New("lot not found")
	ErrLotHasOccupiedSpots  = errors.New("cannot delete lot: some spots are still occupied")

	// Allocation violations.
	ErrNoAvailableSpot = errors.New("no available spots in this lot")
	ErrSpotNotFound    = errors.New("spot not found")
	ErrSpotNotOccupied = errors.New("spot is not occupied")

	// Ledger violations.
	ErrDuplicateActiveReservation = errors.New("user already has an active reservation")
	ErrNoActiveReservation        = errors.New("no active reservation found")
	ErrReservationNotFound        = errors.New("reservation not found")

	// User management and auth.
	ErrUserNotFound             = errors.New("user not found")
	ErrUserHasActiveReservation = errors.New("cannot delete user with an active reservation")
	ErrUsernameTaken            = errors.New("username already exists")
	ErrMissingUserFields        = errors.New("missing required fields")
	ErrInvalidCredentials       = errors.New("invalid credentials")
)

// StatusFor maps a domain failure onto the HTTP status a handler should reply
// with. Anything unrecognized is treated as an internal error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrLotNotFound),
		errors.Is(err, ErrSpotNotFound),
		errors.Is(err, ErrNoAvailableSpot),
		errors.Is(err, ErrNoActiveReservation),
		errors.Is(err, ErrReservationNotFound),
		errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidLotParameters),
		errors.Is(err, ErrLotHasOccupiedSpots),
		errors.Is(err, ErrSpotNotOccupied),
		errors.Is(err, ErrUserHasActiveReservation),
		errors.Is(err, ErrMissingUserFields):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateActiveReservation),
		errors.Is(err, ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
