package entities

type CreateLotRequest struct {
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	PinCode      string  `json:"pin_code"`
	PricePerHour float64 `json:"price_per_hour"`
	TotalSpots   int     `json:"total_spots"`
}

type LotResponse struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	PinCode      string  `json:"pin_code"`
	PricePerHour float64 `json:"price_per_hour"`
	TotalSpots   int     `json:"total_spots"`
}

// AvailableLot is a lot with at least one free spot, as shown to end users.
type AvailableLot struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	PricePerHour   float64 `json:"price_per_hour"`
	AvailableSpots int     `json:"available_spots"`
}

type SpotStatusSummary struct {
	LotID      int    `json:"lot_id"`
	LotName    string `json:"lot_name"`
	TotalSpots int    `json:"total_spots"`
	Available  int    `json:"available"`
	Occupied   int    `json:"occupied"`
}
