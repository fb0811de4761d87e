package service_test

import (
	"sort"
	"sync"
	"time"

	"parkhub/internal/db"
	"parkhub/internal/entities"
	apperrors "parkhub/internal/errors"
	"parkhub/internal/pricing"
)

// memStore is an in-memory stand-in for the Postgres repositories. It keeps
// the same guarantees the SQL layer enforces: claims are serialized under one
// lock, the lowest free spot wins, and a user can hold one open reservation.
type memStore struct {
	mu           sync.Mutex
	lots         map[int]*db.ParkingLot
	spots        map[int]*db.ParkingSpot
	users        map[int]db.User
	reservations map[int]*memReservation
	nextLotID    int
	nextSpotID   int
	nextResID    int
}

type memReservation struct {
	id      int
	spotID  int
	userID  int
	start   time.Time
	end     *time.Time
	cost    *float64
}

func newMemStore() *memStore {
	return &memStore{
		lots:         make(map[int]*db.ParkingLot),
		spots:        make(map[int]*db.ParkingSpot),
		users:        make(map[int]db.User),
		reservations: make(map[int]*memReservation),
	}
}

func (m *memStore) addUser(username, contact string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := len(m.users) + 1
	m.users[id] = db.User{ID: id, Username: username, PhoneNumber: contact, Role: db.RoleUser}
	return id
}

// backdateOpen shifts the start of the user's open reservation into the past.
func (m *memStore) backdateOpen(userID int, by time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, res := range m.reservations {
		if res.userID == userID && res.end == nil {
			res.start = res.start.Add(-by)
		}
	}
}

func (m *memStore) CreateWithSpots(lot *db.ParkingLot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextLotID++
	lot.ID = m.nextLotID
	copied := *lot
	m.lots[lot.ID] = &copied
	for i := 0; i < lot.TotalSpots; i++ {
		m.nextSpotID++
		m.spots[m.nextSpotID] = &db.ParkingSpot{ID: m.nextSpotID, LotID: lot.ID, Status: db.SpotAvailable}
	}
	return nil
}

func (m *memStore) Delete(lotID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lots[lotID]; !ok {
		return apperrors.ErrLotNotFound
	}
	for _, spot := range m.spots {
		if spot.LotID == lotID && spot.Status == db.SpotOccupied {
			return apperrors.ErrLotHasOccupiedSpots
		}
	}
	for id, spot := range m.spots {
		if spot.LotID == lotID {
			delete(m.spots, id)
		}
	}
	delete(m.lots, lotID)
	return nil
}

func (m *memStore) List() ([]entities.LotResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.LotResponse
	for _, lot := range m.lots {
		out = append(out, entities.LotResponse{
			ID:           lot.ID,
			Name:         lot.Name,
			Address:      lot.Address,
			PinCode:      lot.PinCode,
			PricePerHour: lot.PricePerHour,
			TotalSpots:   lot.TotalSpots,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) AvailableLots() ([]entities.AvailableLot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	free := make(map[int]int)
	for _, spot := range m.spots {
		if spot.Status == db.SpotAvailable {
			free[spot.LotID]++
		}
	}
	var out []entities.AvailableLot
	for lotID, count := range free {
		lot := m.lots[lotID]
		out = append(out, entities.AvailableLot{
			ID:             lot.ID,
			Name:           lot.Name,
			Address:        lot.Address,
			PricePerHour:   lot.PricePerHour,
			AvailableSpots: count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) StatusSummary() ([]entities.SpotStatusSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byLot := make(map[int]*entities.SpotStatusSummary)
	for _, lot := range m.lots {
		byLot[lot.ID] = &entities.SpotStatusSummary{LotID: lot.ID, LotName: lot.Name, TotalSpots: lot.TotalSpots}
	}
	for _, spot := range m.spots {
		summary := byLot[spot.LotID]
		if spot.Status == db.SpotOccupied {
			summary.Occupied++
		} else {
			summary.Available++
		}
	}
	var out []entities.SpotStatusSummary
	for _, summary := range byLot {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LotID < out[j].LotID })
	return out, nil
}

func (m *memStore) Open(userID, lotID int, start time.Time) (*entities.OpenedReservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	for _, res := range m.reservations {
		if res.userID == userID && res.end == nil {
			return nil, apperrors.ErrDuplicateActiveReservation
		}
	}
	lot, ok := m.lots[lotID]
	if !ok {
		return nil, apperrors.ErrLotNotFound
	}

	spotID := 0
	for id, spot := range m.spots {
		if spot.LotID == lotID && spot.Status == db.SpotAvailable && (spotID == 0 || id < spotID) {
			spotID = id
		}
	}
	if spotID == 0 {
		return nil, apperrors.ErrNoAvailableSpot
	}
	m.spots[spotID].Status = db.SpotOccupied

	m.nextResID++
	m.reservations[m.nextResID] = &memReservation{id: m.nextResID, spotID: spotID, userID: userID, start: start}

	return &entities.OpenedReservation{
		ReservationID: m.nextResID,
		SpotID:        spotID,
		LotID:         lotID,
		LotName:       lot.Name,
		StartTime:     start,
		Username:      user.Username,
		Contact:       user.PhoneNumber,
	}, nil
}

func (m *memStore) Close(userID int, end time.Time) (*entities.ClosedReservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var open *memReservation
	for _, res := range m.reservations {
		if res.userID == userID && res.end == nil {
			open = res
			break
		}
	}
	if open == nil {
		return nil, apperrors.ErrNoActiveReservation
	}

	spot := m.spots[open.spotID]
	lot := m.lots[spot.LotID]
	cost, err := pricing.ComputeCost(open.start, end, lot.PricePerHour)
	if err != nil {
		return nil, err
	}

	endCopy := end
	open.end = &endCopy
	open.cost = &cost
	spot.Status = db.SpotAvailable
	user := m.users[userID]

	return &entities.ClosedReservation{
		ReservationID: open.id,
		SpotID:        open.spotID,
		LotName:       lot.Name,
		StartTime:     open.start,
		EndTime:       end,
		Cost:          cost,
		DurationHours: end.Sub(open.start).Hours(),
		Username:      user.Username,
		Contact:       user.PhoneNumber,
	}, nil
}

func (m *memStore) Active(userID int) (*entities.ActiveReservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, res := range m.reservations {
		if res.userID == userID && res.end == nil {
			lot := m.lots[m.spots[res.spotID].LotID]
			return &entities.ActiveReservation{
				ReservationID: res.id,
				SpotID:        res.spotID,
				LotName:       lot.Name,
				StartTime:     res.start,
			}, nil
		}
	}
	return nil, apperrors.ErrNoActiveReservation
}

func (m *memStore) History(userID int) ([]entities.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []entities.HistoryEntry
	for _, res := range m.reservations {
		if res.userID != userID {
			continue
		}
		lot := m.lots[m.spots[res.spotID].LotID]
		entries = append(entries, entities.HistoryEntry{
			ReservationID: res.id,
			SpotID:        res.spotID,
			LotName:       lot.Name,
			StartTime:     res.start,
			EndTime:       res.end,
			Cost:          res.cost,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StartTime.After(entries[j].StartTime) })
	return entries, nil
}

func (m *memStore) ListCurrent(since time.Time) ([]entities.AdminReservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.AdminReservation
	for _, res := range m.reservations {
		if res.end != nil && res.end.Before(since) {
			continue
		}
		lot := m.lots[m.spots[res.spotID].LotID]
		user := m.users[res.userID]
		adminRes := entities.AdminReservation{
			ReservationID: res.id,
			LotName:       lot.Name,
			SpotID:        res.spotID,
			Username:      user.Username,
			UserEmail:     user.Email,
			StartTime:     res.start,
			Status:        "Active",
		}
		if res.end != nil {
			adminRes.EndTime = res.end
			adminRes.Cost = res.cost
			adminRes.Status = "Completed"
			duration := pricing.Round2(res.end.Sub(res.start).Hours())
			adminRes.DurationHours = &duration
		}
		out = append(out, adminRes)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

// captureDispatcher records every event it is handed and can be made to fail.
type captureDispatcher struct {
	mu     sync.Mutex
	events []entities.NotificationEvent
	err    error
}

func (d *captureDispatcher) Send(event entities.NotificationEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return d.err
}

func (d *captureDispatcher) sent() []entities.NotificationEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]entities.NotificationEvent, len(d.events))
	copy(out, d.events)
	return out
}
