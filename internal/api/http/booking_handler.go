package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"equipbook-backend/internal/domain"
	"equipbook-backend/internal/service"
)

// BookingHandler exposes reservation admission and lifecycle over HTTP.
type BookingHandler struct {
	bookingSvc service.BookingService
	policySvc  service.PolicyService
}

func NewBookingHandler(bookingSvc service.BookingService, policySvc service.PolicyService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, policySvc: policySvc}
}

type createReservationRequest struct {
	EquipmentID int32  `json:"equipment_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Purpose     string `json:"purpose"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reservation, rejection, err := h.bookingSvc.Admit(r.Context(), requester, req.EquipmentID, start, end, req.Purpose)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if rejection != nil {
		writeRejection(w, rejection)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"reservation": reservation})
}

// PolicyCheck runs the rule engine standalone for pre-flight UI hints.
// Nothing is admitted; rejections are reported with a 200 so the UI can
// render them inline.
func (h *BookingHandler) PolicyCheck(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	equipmentID, err := strconv.ParseInt(r.URL.Query().Get("equipment_id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "equipment_id is required")
		return
	}
	start, end, err := parseDateRange(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.policySvc.Evaluate(r.Context(), requester, int32(equipmentID), start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Availability answers the pre-flight "is this item free" question for the
// booking form. Advisory only: admission re-checks inside its transaction.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if _, ok := requesterFrom(r); !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	equipmentID, err := strconv.ParseInt(r.URL.Query().Get("equipment_id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "equipment_id is required")
		return
	}
	start, end, err := parseDateRange(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var excludeID int64
	if raw := r.URL.Query().Get("exclude_reservation_id"); raw != "" {
		if excludeID, err = strconv.ParseInt(raw, 10, 32); err != nil {
			writeError(w, http.StatusBadRequest, "invalid exclude_reservation_id")
			return
		}
	}

	available, err := h.bookingSvc.CheckAvailability(r.Context(), int32(equipmentID), start, end, int32(excludeID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"equipment_id": equipmentID,
		"start_date":   start.Format("2006-01-02"),
		"end_date":     end.Format("2006-01-02"),
		"available":    available,
	})
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(requester domain.Requester, id int32) (*domain.Reservation, error) {
		return h.bookingSvc.Approve(r.Context(), requester, id)
	})
}

func (h *BookingHandler) Deny(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(requester domain.Requester, id int32) (*domain.Reservation, error) {
		return h.bookingSvc.Deny(r.Context(), requester, id)
	})
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reservation, fine, err := h.bookingSvc.Complete(r.Context(), requester, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	body := map[string]any{"reservation": reservation}
	if fine != nil {
		body["fine"] = fine
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.bookingSvc.Cancel(r.Context(), requester, id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	reservations, err := h.bookingSvc.ListReservations(r.Context(), requester.ID, r.URL.Query().Get("status"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": reservations})
}

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, fn func(domain.Requester, int32) (*domain.Reservation, error)) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reservation, err := fn(requester, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservation": reservation})
}

func pathID(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, errInvalidID
	}
	return int32(id), nil
}

var errInvalidID = errInvalid("invalid id in path")

type errInvalid string

func (e errInvalid) Error() string { return string(e) }

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalid("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalid("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errInvalid("end_date precedes start_date")
	}
	return start, end, nil
}
