package api

import (
	"encoding/json"
	"net/http"

	"parkhub/internal/auth"
	"parkhub/internal/entities"
	"parkhub/internal/service"
)

// UserHandler serves the authenticated end-user surface: browsing lots,
// booking and releasing spots, and reading back history.
type UserHandler struct {
	Lots         *service.LotService
	Reservations *service.ReservationService
	Export       *service.ExportService
}

func NewUserHandler(lots *service.LotService, reservations *service.ReservationService, export *service.ExportService) *UserHandler {
	return &UserHandler{Lots: lots, Reservations: reservations, Export: export}
}

func (h *UserHandler) AvailableLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.Lots.AvailableLots()
	if err != nil {
		writeError(w, err)
		return
	}
	if lots == nil {
		lots = []entities.AvailableLot{}
	}
	writeJSON(w, http.StatusOK, lots)
}

func (h *UserHandler) Book(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req entities.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Reservations.Book(userID, req.LotID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *UserHandler) Release(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	resp, err := h.Reservations.Release(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) ActiveReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	res, err := h.Reservations.Active(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	history, err := h.Reservations.History(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if history == nil {
		history = []entities.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}

// ExportCSV builds the user's reservation export, writes the CSV file and
// returns the rows inline alongside the file path.
func (h *UserHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	rows, err := h.Export.BuildRows(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	path, err := h.Export.WriteFile(userID, rows)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.ExportResponse{
		Message:  "Export complete",
		Data:     rows,
		Count:    len(rows),
		FilePath: path,
	})
}
