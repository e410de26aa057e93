package service

import (
	"context"
	"time"

	"equipbook-backend/internal/domain"
)

// BookingService is the admission coordinator: it decides, atomically,
// whether a reservation request enters the committed schedule, and owns the
// reservation lifecycle transitions that follow.
type BookingService interface {
	// Admit returns either the admitted pending reservation or a structured
	// rejection. The error return is reserved for unexpected storage
	// failures; policy and availability refusals are rejections, not errors.
	Admit(ctx context.Context, requester domain.Requester, equipmentID int32, start, end time.Time, purpose string) (*domain.Reservation, *domain.Rejection, error)
	Approve(ctx context.Context, actor domain.Requester, reservationID int32) (*domain.Reservation, error)
	Deny(ctx context.Context, actor domain.Requester, reservationID int32) (*domain.Reservation, error)
	Cancel(ctx context.Context, actor domain.Requester, reservationID int32) error
	// Complete marks an approved reservation returned and records a late
	// fine when the return is past the end date. The fine is nil for
	// on-time returns.
	Complete(ctx context.Context, actor domain.Requester, reservationID int32) (*domain.Reservation, *domain.Fine, error)
	// CheckAvailability reports whether the equipment is free for the
	// inclusive date range. excludeReservationID ignores one reservation,
	// for rescheduling checks; pass 0 to exclude nothing. Advisory only:
	// admission re-checks inside its own transaction.
	CheckAvailability(ctx context.Context, equipmentID int32, start, end time.Time, excludeReservationID int32) (bool, error)
	ListReservations(ctx context.Context, userID int32, status string) ([]domain.Reservation, error)
}

// PolicyService is the policy rule engine. Rules run in fixed order and the
// first failure wins, so rejections are deterministic and explainable.
type PolicyService interface {
	Evaluate(ctx context.Context, requester domain.Requester, equipmentID int32, start, end time.Time) (*domain.PolicyResult, error)
}

// LedgerService is the fine and hold ledger. All mutations are
// append-then-recompute: fines only ever change status, and the account
// standing projection is refreshed after every change.
type LedgerService interface {
	// RecordLateFine creates a fine for a late return, or returns nil when
	// the return was on time.
	RecordLateFine(ctx context.Context, reservationID int32, dailyRateCents int32, returnedAt time.Time) (*domain.Fine, error)
	// MarkOverdueFines promotes unresolved fines past their due date and
	// returns how many were promoted.
	MarkOverdueFines(ctx context.Context) (int32, error)
	ResolveFine(ctx context.Context, fineID int32, outcome domain.FineStatus, actorID int32, note string) (*domain.Fine, error)
	GetStanding(ctx context.Context, userID int32) (*domain.AccountStanding, error)
	ListFines(ctx context.Context, userID int32, status string) ([]domain.Fine, error)
}

// RoutingService is the cross-department router: it decides which units can
// fulfil a request for an equipment type and materializes tracked branches.
type RoutingService interface {
	Route(ctx context.Context, equipmentType string, quantity int32) (*domain.RoutingDecision, error)
	// CreateRequest routes and materializes either one single-target row or
	// one row per broadcast target, created atomically. A ROUTING_NO_SUPPLY
	// rejection is returned when no unit has stock.
	CreateRequest(ctx context.Context, requester domain.Requester, equipmentType string, quantity int32, start, end time.Time, justification string) ([]domain.CrossDepartmentRequest, *domain.Rejection, error)
	ListForUnit(ctx context.Context, unitID int32, status string) ([]domain.CrossDepartmentRequest, error)
	ListByRequester(ctx context.Context, userID int32) ([]domain.CrossDepartmentRequest, error)
}

// RequestLifecycleService advances routed requests through their state
// machines. Every branch is independent: nothing here ever touches a
// sibling of the request being transitioned.
type RequestLifecycleService interface {
	Approve(ctx context.Context, reviewer domain.Requester, requestID int32, instructions string) (*domain.CrossDepartmentRequest, error)
	Deny(ctx context.Context, reviewer domain.Requester, requestID int32, reason string) (*domain.CrossDepartmentRequest, error)
	Cancel(ctx context.Context, requester domain.Requester, requestID int32) (*domain.CrossDepartmentRequest, error)
}
