package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrAvailabilityConflict = errors.New("equipment not available for the requested dates")
	ErrStorageConflict      = errors.New("conflicting concurrent write detected at commit")
	ErrInvalidTransition    = errors.New("invalid lifecycle transition")
	ErrNoteRequired         = errors.New("review note is required")
	ErrNoSupply             = errors.New("no unit has matching equipment available")
)

type ViolationType string

const (
	ViolationAvailabilityConflict ViolationType = "AVAILABILITY_CONFLICT"
	ViolationAccountHold          ViolationType = "ACCOUNT_HOLD"
	ViolationTrainingRequired     ViolationType = "TRAINING_REQUIRED"
	ViolationWeeklyLimit          ViolationType = "WEEKLY_LIMIT_EXCEEDED"
	ViolationConcurrentLimit      ViolationType = "CONCURRENT_LIMIT_EXCEEDED"
	ViolationNoSupply             ViolationType = "ROUTING_NO_SUPPLY"
	ViolationInvalidTransition    ViolationType = "LIFECYCLE_INVALID_TRANSITION"
	ViolationStorageConflict      ViolationType = "STORAGE_CONFLICT"
)

// Rejection is the machine-readable outcome of a refused request. It is a
// value, not an error: the caller's request completed, the answer was no.
type Rejection struct {
	Type    ViolationType  `json:"violation_type"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
