package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusApproved  ReservationStatus = "APPROVED"
	ReservationStatusDenied    ReservationStatus = "DENIED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
)

// Terminal reports whether no further transition is allowed from s.
func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationStatusDenied, ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

// Blocking reports whether a reservation in this status occupies the
// equipment's calendar. Only PENDING and APPROVED count toward conflicts.
func (s ReservationStatus) Blocking() bool {
	return s == ReservationStatusPending || s == ReservationStatusApproved
}

type Reservation struct {
	ID          int32             `json:"id"`
	RequesterID int32             `json:"requester_id"`
	EquipmentID int32             `json:"equipment_id"`
	StartDate   time.Time         `json:"start_date"`
	EndDate     time.Time         `json:"end_date"`
	Status      ReservationStatus `json:"status"`
	Purpose     string            `json:"purpose"`
	CreatedOn   time.Time         `json:"created_on"`
	UpdatedOn   time.Time         `json:"updated_on"`
}

// Overlaps reports whether two inclusive date ranges intersect.
// Boundaries are inclusive: a same-day handoff counts as a conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}
