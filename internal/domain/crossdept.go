package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusDenied    RequestStatus = "DENIED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

type RoutingMode string

const (
	RoutingModeNone      RoutingMode = "none"
	RoutingModeSingle    RoutingMode = "single"
	RoutingModeBroadcast RoutingMode = "broadcast"
)

// UnitAvailability is a snapshot of one unit's stock of a given equipment
// type at routing time. Snapshots are advisory; the reviewing unit
// re-verifies before approving.
type UnitAvailability struct {
	UnitID         int32  `json:"unit_id"`
	UnitName       string `json:"unit_name"`
	AvailableCount int32  `json:"available_count"`
}

type RoutingDecision struct {
	Mode    RoutingMode        `json:"mode"`
	Targets []UnitAvailability `json:"targets"`
	Message string             `json:"message"`
}

// CrossDepartmentRequest is one routed branch of a cross-unit equipment
// request. Broadcast branches share a BroadcastGroupID but are otherwise
// independent aggregates: reviewing or cancelling one never touches its
// siblings.
type CrossDepartmentRequest struct {
	ID                int32         `json:"id"`
	RequestingUserID  int32         `json:"requesting_user_id"`
	RequestingUnitID  int32         `json:"requesting_unit_id"`
	TargetUnitID      int32         `json:"target_unit_id"`
	EquipmentType     string        `json:"equipment_type"`
	Quantity          int32         `json:"quantity"`
	StartDate         time.Time     `json:"start_date"`
	EndDate           time.Time     `json:"end_date"`
	Justification     string        `json:"justification"`
	Status            RequestStatus `json:"status"`
	RoutingType       RoutingMode   `json:"routing_type"`
	BroadcastGroupID  *string       `json:"broadcast_group_id,omitempty"`
	AvailableAtTarget int32         `json:"available_at_target"`
	ReviewNotes       string        `json:"review_notes,omitempty"`
	ReviewedBy        *int32        `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time    `json:"reviewed_at,omitempty"`
	CreatedOn         time.Time     `json:"created_on"`
}
