package service

import (
	"fmt"
	"strings"

	"parkhub/internal/db"
	"parkhub/internal/entities"
	apperrors "parkhub/internal/errors"
)

// LotStore is the persistence surface the lot registry needs.
type LotStore interface {
	CreateWithSpots(lot *db.ParkingLot) error
	Delete(lotID int) error
	List() ([]entities.LotResponse, error)
	AvailableLots() ([]entities.AvailableLot, error)
	StatusSummary() ([]entities.SpotStatusSummary, error)
}

type LotService struct {
	Store LotStore
}

func NewLotService(store LotStore) *LotService {
	return &LotService{Store: store}
}

// CreateLot validates the lot parameters and provisions the lot together with
// all of its spots.
func (s *LotService) CreateLot(req entities.CreateLotRequest) (*entities.LotResponse, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Address) == "" {
		return nil, fmt.Errorf("%w: name and address are required", apperrors.ErrInvalidLotParameters)
	}
	if req.PricePerHour < 0 {
		return nil, fmt.Errorf("%w: price_per_hour must not be negative", apperrors.ErrInvalidLotParameters)
	}
	if req.TotalSpots < 1 {
		return nil, fmt.Errorf("%w: total_spots must be at least 1", apperrors.ErrInvalidLotParameters)
	}

	lot := &db.ParkingLot{
		Name:         strings.TrimSpace(req.Name),
		Address:      strings.TrimSpace(req.Address),
		PinCode:      strings.TrimSpace(req.PinCode),
		PricePerHour: req.PricePerHour,
		TotalSpots:   req.TotalSpots,
	}
	if err := s.Store.CreateWithSpots(lot); err != nil {
		return nil, err
	}

	return &entities.LotResponse{
		ID:           lot.ID,
		Name:         lot.Name,
		Address:      lot.Address,
		PinCode:      lot.PinCode,
		PricePerHour: lot.PricePerHour,
		TotalSpots:   lot.TotalSpots,
	}, nil
}

// DeleteLot removes a lot and its spots. It fails while any spot is occupied.
func (s *LotService) DeleteLot(lotID int) error {
	return s.Store.Delete(lotID)
}

func (s *LotService) ListLots() ([]entities.LotResponse, error) {
	return s.Store.List()
}

// AvailableLots lists lots with at least one free spot for the booking page.
func (s *LotService) AvailableLots() ([]entities.AvailableLot, error) {
	return s.Store.AvailableLots()
}

func (s *LotService) SpotStatusSummary() ([]entities.SpotStatusSummary, error) {
	return s.Store.StatusSummary()
}
