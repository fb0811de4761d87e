package service

import (
	"log"
	"time"

	"parkhub/internal/entities"
)

// ReservationStore is the persistence surface of the reservation ledger.
// Open and Close are single atomic units on the underlying store: either
// every step commits or none does.
type ReservationStore interface {
	Open(userID, lotID int, start time.Time) (*entities.OpenedReservation, error)
	Close(userID int, end time.Time) (*entities.ClosedReservation, error)
	Active(userID int) (*entities.ActiveReservation, error)
	History(userID int) ([]entities.HistoryEntry, error)
	ListCurrent(since time.Time) ([]entities.AdminReservation, error)
}

// NotificationDispatcher delivers outbound messages after a reservation event
// has committed. Failures are logged and never propagated to the booking or
// release flows.
type NotificationDispatcher interface {
	Send(event entities.NotificationEvent) error
}

type ReservationService struct {
	Store      ReservationStore
	Dispatcher NotificationDispatcher
}

func NewReservationService(store ReservationStore, dispatcher NotificationDispatcher) *ReservationService {
	return &ReservationService{Store: store, Dispatcher: dispatcher}
}

// Book claims the first available spot in the lot for the user and opens the
// reservation. The confirmation message goes out only after the claim has
// committed.
func (s *ReservationService) Book(userID, lotID int) (*entities.BookResponse, error) {
	opened, err := s.Store.Open(userID, lotID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.notify(entities.NotificationEvent{
		Kind:      entities.NotifyBookingConfirmed,
		Contact:   opened.Contact,
		Username:  opened.Username,
		LotName:   opened.LotName,
		SpotID:    opened.SpotID,
		StartTime: opened.StartTime,
	})

	return &entities.BookResponse{
		Message:       "Spot booked",
		ReservationID: opened.ReservationID,
		SpotID:        opened.SpotID,
		StartTime:     opened.StartTime,
	}, nil
}

// Release closes the user's open reservation, prices it against the lot's
// hourly rate and frees the spot.
func (s *ReservationService) Release(userID int) (*entities.ReleaseResponse, error) {
	closed, err := s.Store.Close(userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	endTime := closed.EndTime
	s.notify(entities.NotificationEvent{
		Kind:          entities.NotifySpotReleased,
		Contact:       closed.Contact,
		Username:      closed.Username,
		LotName:       closed.LotName,
		SpotID:        closed.SpotID,
		StartTime:     closed.StartTime,
		EndTime:       &endTime,
		Cost:          closed.Cost,
		DurationHours: closed.DurationHours,
	})

	return &entities.ReleaseResponse{
		Message: "Spot released",
		SpotID:  closed.SpotID,
		Cost:    closed.Cost,
	}, nil
}

func (s *ReservationService) Active(userID int) (*entities.ActiveReservation, error) {
	return s.Store.Active(userID)
}

func (s *ReservationService) History(userID int) ([]entities.HistoryEntry, error) {
	return s.Store.History(userID)
}

// Current lists open reservations plus those closed within the rolling window.
func (s *ReservationService) Current(window time.Duration) ([]entities.AdminReservation, error) {
	return s.Store.ListCurrent(time.Now().UTC().Add(-window))
}

// notify hands the event to the dispatcher on its own goroutine. The state
// change has already committed, so delivery problems are only logged.
func (s *ReservationService) notify(event entities.NotificationEvent) {
	if s.Dispatcher == nil {
		return
	}
	go func() {
		if err := s.Dispatcher.Send(event); err != nil {
			log.Printf("Notification %s for spot %d failed: %v", event.Kind, event.SpotID, err)
		}
	}()
}
