package dto

import (
	"time"

	"github.com/dulieucongty68/pmql-be/internal/domain"
)

// CreateEmployeeRequest payload. Role is the numeric role code as a string:
// "0" for admin, "1" for team lead, anything else for a plain member.
type CreateEmployeeRequest struct {
	Username string             `json:"username"`
	Name     string             `json:"name"`
	Role     string             `json:"role"`
	Status   *domain.UserStatus `json:"status"`
	TeamID   int64              `json:"team_id"`
}

// UpdateEmployeeRequest carries only the fields the caller wants changed.
type UpdateEmployeeRequest struct {
	Name         *string            `json:"name"`
	Username     *string            `json:"username"`
	Password     *string            `json:"password"`
	TeamID       *int64             `json:"team_id"`
	Status       *domain.UserStatus `json:"status"`
	IsFirstLogin *bool              `json:"is_first_login"`
}

// EmployeeSummary is the employee representation returned by the API. The
// password hash never leaves the server.
type EmployeeSummary struct {
	ID           int64             `json:"id"`
	Username     string            `json:"username"`
	Name         string            `json:"name"`
	RoleLabel    string            `json:"role_label"`
	IsAdmin      bool              `json:"is_admin"`
	IsTeamLead   bool              `json:"is_team_lead"`
	IsFirstLogin bool              `json:"is_first_login"`
	Status       domain.UserStatus `json:"status"`
	TeamID       *int64            `json:"team_id"`
	CreatedBy    *string           `json:"created_by,omitempty"`
	UpdatedBy    *string           `json:"updated_by,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// EmployeeListResponse wraps a page of employees.
type EmployeeListResponse struct {
	Employees []EmployeeSummary `json:"employees"`
	Total     int64             `json:"total"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
}
