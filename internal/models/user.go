package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleTeacher    UserRole = "TEACHER"
	RoleStudent    UserRole = "STUDENT"
)

// Privileged reports whether the role may override authorship and approve content.
func (r UserRole) Privileged() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Actor is whoever triggers a lifecycle operation.
type Actor struct {
	ID   string
	Role UserRole
}

// SystemActor is used by automated sweeps.
var SystemActor = Actor{ID: ArchivedBySystem}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
