package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"parkhub/internal/entities"
	"parkhub/internal/service"
)

// AdminHandler serves the admin surface: lot management, the live spot board,
// user management and the rolling reservation view.
type AdminHandler struct {
	Lots         *service.LotService
	Users        *service.UserService
	Reservations *service.ReservationService
}

func NewAdminHandler(lots *service.LotService, users *service.UserService, reservations *service.ReservationService) *AdminHandler {
	return &AdminHandler{Lots: lots, Users: users, Reservations: reservations}
}

func (h *AdminHandler) CreateLot(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	lot, err := h.Lots.CreateLot(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lot)
}

func (h *AdminHandler) ListLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.Lots.ListLots()
	if err != nil {
		writeError(w, err)
		return
	}
	if lots == nil {
		lots = []entities.LotResponse{}
	}
	writeJSON(w, http.StatusOK, lots)
}

func (h *AdminHandler) DeleteLot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Lots.DeleteLot(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.MessageResponse{Message: "Lot deleted"})
}

func (h *AdminHandler) SpotStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Lots.SpotStatusSummary()
	if err != nil {
		writeError(w, err)
		return
	}
	if summary == nil {
		summary = []entities.SpotStatusSummary{}
	}
	writeJSON(w, http.StatusOK, summary)
}

// ListReservations shows open reservations plus those closed in the last 24
// hours.
func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.Reservations.Current(24 * time.Hour)
	if err != nil {
		writeError(w, err)
		return
	}
	if reservations == nil {
		reservations = []entities.AdminReservation{}
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req entities.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	user, err := h.Users.Create(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req entities.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	user, err := h.Users.Update(id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Users.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.MessageResponse{Message: "User deleted"})
}
