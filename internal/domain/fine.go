package domain

import "time"

type FineStatus string

const (
	FineStatusPending FineStatus = "PENDING"
	FineStatusPaid    FineStatus = "PAID"
	FineStatusWaived  FineStatus = "WAIVED"
	FineStatusOverdue FineStatus = "OVERDUE"
)

// Terminal reports whether a fine can no longer change status. OVERDUE is
// not terminal: an overdue fine can still be paid or waived.
func (s FineStatus) Terminal() bool {
	return s == FineStatusPaid || s == FineStatusWaived
}

// Unresolved reports whether the fine still counts toward the amount owed.
func (s FineStatus) Unresolved() bool {
	return s == FineStatusPending || s == FineStatusOverdue
}

// Fine is an append-only ledger entry. Fines are never deleted, only
// status-transitioned, so the full penalty history stays auditable.
type Fine struct {
	ID             int32      `json:"id"`
	UserID         int32      `json:"user_id"`
	ReservationID  *int32     `json:"reservation_id,omitempty"`
	AmountCents    int32      `json:"amount_cents"`
	Status         FineStatus `json:"status"`
	DaysLate       int32      `json:"days_late"`
	DailyRateCents int32      `json:"daily_rate_cents"`
	Description    string     `json:"description"`
	DueDate        time.Time  `json:"due_date"`
	ResolvedBy     *int32     `json:"resolved_by,omitempty"`
	ResolutionNote string     `json:"resolution_note,omitempty"`
	CreatedOn      time.Time  `json:"created_on"`
	UpdatedOn      time.Time  `json:"updated_on"`
}

// AccountStanding is the ledger's stored projection of a user's financial
// state. It is recomputed after every ledger mutation and consumed
// read-only by the policy rule engine.
type AccountStanding struct {
	UserID         int32     `json:"user_id"`
	Hold           bool      `json:"hold"`
	HoldReason     string    `json:"hold_reason,omitempty"`
	TotalOwedCents int32     `json:"total_owed_cents"`
	OverdueCount   int32     `json:"overdue_count"`
	UpdatedOn      time.Time `json:"updated_on"`
}
