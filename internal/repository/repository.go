package repository

import (
	"context"
	"time"

	"equipbook-backend/internal/domain"
)

type ReservationRepository interface {
	// CreateIfAvailable inserts the reservation inside a single transaction
	// that locks the equipment row and re-checks for overlapping blocking
	// reservations. Returns domain.ErrAvailabilityConflict when the re-check
	// finds an overlap and domain.ErrStorageConflict when the insert loses a
	// commit-time race against the exclusion constraint.
	CreateIfAvailable(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	// UpdateStatus transitions id between statuses in a single guarded
	// write. Returns false when the row was not in the expected status.
	UpdateStatus(ctx context.Context, id int32, from, to domain.ReservationStatus) (bool, error)
	HasOverlap(ctx context.Context, equipmentID int32, start, end time.Time, excludeID int32) (bool, error)
	CountStartingBetween(ctx context.Context, userID int32, from, to time.Time) (int32, error)
	CountActiveOrPending(ctx context.Context, userID int32, today time.Time) (int32, error)
	ListByRequester(ctx context.Context, userID int32, status string) ([]domain.Reservation, error)
}

type EquipmentRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Equipment, error)
	// AvailabilityByType groups available equipment matching the type name
	// (case-insensitive substring) by owning unit, ordered by count
	// descending then unit id ascending for deterministic routing.
	AvailabilityByType(ctx context.Context, equipmentType string) ([]domain.UnitAvailability, error)
}

type FineRepository interface {
	Create(ctx context.Context, f *domain.Fine) error
	GetByID(ctx context.Context, id int32) (*domain.Fine, error)
	// Resolve transitions an unresolved fine to a terminal status in a
	// single guarded write. Returns false when the fine was not PENDING or
	// OVERDUE at write time.
	Resolve(ctx context.Context, id int32, outcome domain.FineStatus, actorID int32, note string) (bool, error)
	// MarkOverdue promotes PENDING fines past their due date and returns the
	// owning user id of every promoted fine, one entry per fine. Callers
	// dedupe before recomputing standings.
	MarkOverdue(ctx context.Context, asOf time.Time) ([]int32, error)
	List(ctx context.Context, userID int32, status string) ([]domain.Fine, error)
	ComputeStanding(ctx context.Context, userID int32) (totalOwedCents int32, overdueCount int32, err error)
	UpsertStanding(ctx context.Context, s *domain.AccountStanding) error
	GetStanding(ctx context.Context, userID int32) (*domain.AccountStanding, error)
}

type PolicyViolationRepository interface {
	Create(ctx context.Context, v *domain.PolicyViolation) error
}

type TrainingRepository interface {
	HasCompleted(ctx context.Context, userID int32, category string) (bool, error)
}

type CrossDepartmentRepository interface {
	// CreateBatch inserts all branches of one logical request atomically.
	CreateBatch(ctx context.Context, reqs []*domain.CrossDepartmentRequest) error
	GetByID(ctx context.Context, id int32) (*domain.CrossDepartmentRequest, error)
	// Review stamps status, reviewer and notes in one guarded write against
	// a PENDING row. Returns false when the row was no longer pending.
	Review(ctx context.Context, id int32, to domain.RequestStatus, reviewerID int32, notes string, at time.Time) (bool, error)
	// CancelPending cancels a pending row owned by requesterID. Returns
	// false when the row was not pending or not owned by the requester.
	CancelPending(ctx context.Context, id, requesterID int32) (bool, error)
	ListByTargetUnit(ctx context.Context, unitID int32, status string) ([]domain.CrossDepartmentRequest, error)
	ListByRequester(ctx context.Context, userID int32) ([]domain.CrossDepartmentRequest, error)
}
