package domain

import "time"

// PolicyLimit is the per-role booking policy configuration. It is read-only
// at evaluation time; values come from configuration, never from the engine.
type PolicyLimit struct {
	WeeklyMaxCount     int32 `json:"weekly_max_count" yaml:"weekly_max_count"`
	ConcurrentMaxCount int32 `json:"concurrent_max_count" yaml:"concurrent_max_count"`
	RequiresTraining   bool  `json:"requires_training" yaml:"requires_training"`
}

type PolicyResult struct {
	Valid     bool       `json:"valid"`
	Rejection *Rejection `json:"rejection,omitempty"`
}

// PolicyViolation is the audit record persisted for every policy or
// availability rejection before it is returned to the caller.
type PolicyViolation struct {
	ID                   int32         `json:"id"`
	UserID               int32         `json:"user_id"`
	ViolationType        ViolationType `json:"violation_type"`
	Details              string        `json:"details"`
	AttemptedEquipmentID int32         `json:"attempted_equipment_id"`
	AttemptedStartDate   time.Time     `json:"attempted_start_date"`
	AttemptedEndDate     time.Time     `json:"attempted_end_date"`
	Blocked              bool          `json:"blocked"`
	CreatedOn            time.Time     `json:"created_on"`
}
