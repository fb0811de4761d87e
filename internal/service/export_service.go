package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"parkhub/internal/entities"
)

// ExportService turns a user's reservation history into CSV, both as rows for
// the API response and as a file on disk.
type ExportService struct {
	Store ReservationStore
	Dir   string
}

func NewExportService(store ReservationStore, dir string) *ExportService {
	return &ExportService{Store: store, Dir: dir}
}

// BuildRows flattens the user's history into export rows, newest first.
func (s *ExportService) BuildRows(userID int) ([]entities.ExportRow, error) {
	history, err := s.Store.History(userID)
	if err != nil {
		return nil, err
	}

	rows := make([]entities.ExportRow, 0, len(history))
	for _, entry := range history {
		row := entities.ExportRow{
			ReservationID: entry.ReservationID,
			LotName:       entry.LotName,
			SpotID:        entry.SpotID,
			StartTime:     entry.StartTime.Format("2006-01-02 15:04:05"),
			Status:        "Active",
		}
		if entry.EndTime != nil {
			row.EndTime = entry.EndTime.Format("2006-01-02 15:04:05")
			row.Status = "Completed"
		}
		if entry.Cost != nil {
			row.Cost = *entry.Cost
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteFile writes the rows as a CSV file under the export directory and
// returns the file's path. Each call produces a uniquely named file.
func (s *ExportService) WriteFile(userID int, rows []entities.ExportRow) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	name := fmt.Sprintf("reservation_export_user_%d_%s.csv", userID, uuid.NewString())
	path := filepath.Join(s.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"reservation_id", "lot_name", "spot_id", "start_time", "end_time", "cost", "status"}); err != nil {
		return "", err
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.ReservationID),
			row.LotName,
			strconv.Itoa(row.SpotID),
			row.StartTime,
			row.EndTime,
			strconv.FormatFloat(row.Cost, 'f', 2, 64),
			row.Status,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}
	return path, nil
}
