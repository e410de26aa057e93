package domain

type Role string

const (
	RoleStudent     Role = "STUDENT"
	RoleStaff       Role = "STAFF"
	RoleDeptAdmin   Role = "DEPT_ADMIN"
	RoleMasterAdmin Role = "MASTER_ADMIN"
)

// Authorizer reports whether the role may approve, deny or force-cancel
// reservations and review cross-department requests for its unit.
func (r Role) Authorizer() bool {
	return r == RoleDeptAdmin || r == RoleMasterAdmin
}

// Requester is the authenticated identity supplied by the external auth
// layer: who is asking, what class of policy applies, and which unit they
// belong to. This core never issues or verifies credentials.
type Requester struct {
	ID     int32 `json:"id"`
	Role   Role  `json:"role"`
	UnitID int32 `json:"unit_id"`
}
