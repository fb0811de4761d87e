package entities

// ActivitySummary aggregates a user's reservations over a reporting window.
// TotalHours counts closed reservations only.
type ActivitySummary struct {
	Reservations int
	TotalHours   float64
	TotalCost    float64
	MostUsedLot  string
}

type ExportRow struct {
	ReservationID int     `json:"reservation_id"`
	LotName       string  `json:"lot_name"`
	SpotID        int     `json:"spot_id"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Cost          float64 `json:"cost"`
	Status        string  `json:"status"`
}

type ExportResponse struct {
	Message  string      `json:"message"`
	Data     []ExportRow `json:"data"`
	Count    int         `json:"count"`
	FilePath string      `json:"file_path,omitempty"`
}
