package dto

import (
	"time"

	"github.com/dulieucongty68/pmql-be/internal/domain"
)

// CreateCustomerRequest payload.
type CreateCustomerRequest struct {
	FullName    string                 `json:"full_name"`
	YearOfBirth int                    `json:"year_of_birth"`
	PhoneNumber string                 `json:"phone_number"`
	Note        string                 `json:"note"`
	RoleNote    domain.RoleNote        `json:"role_note"`
	Status      *domain.CustomerStatus `json:"status"`
	TeamID      *int64                 `json:"team_id"`
}

// UpdateCustomerRequest carries only the fields the caller wants changed.
type UpdateCustomerRequest struct {
	FullName    *string                `json:"full_name"`
	YearOfBirth *int                   `json:"year_of_birth"`
	PhoneNumber *string                `json:"phone_number"`
	Note        *string                `json:"note"`
	RoleNote    *domain.RoleNote       `json:"role_note"`
	TeamID      *int64                 `json:"team_id"`
	Status      *domain.CustomerStatus `json:"status"`
}

// CustomerResponse is the full customer representation.
type CustomerResponse struct {
	ID            int64                 `json:"id"`
	FullName      string                `json:"full_name"`
	YearOfBirth   int                   `json:"year_of_birth"`
	PhoneNumber   string                `json:"phone_number"`
	Note          string                `json:"note"`
	RoleNote      domain.RoleNote       `json:"role_note"`
	RoleNoteLabel string                `json:"role_note_label"`
	Status        domain.CustomerStatus `json:"status"`
	TeamID        *int64                `json:"team_id"`
	TeamName      *string               `json:"team_name,omitempty"`
	CreatedBy     string                `json:"created_by,omitempty"`
	UpdatedBy     string                `json:"updated_by,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// CustomerExportRow is the spreadsheet export shape. UpdatedAt is only
// populated for closed customers.
type CustomerExportRow struct {
	ID            int64                 `json:"id"`
	FullName      string                `json:"full_name"`
	YearOfBirth   int                   `json:"year_of_birth"`
	PhoneNumber   string                `json:"phone_number"`
	Note          string                `json:"note"`
	RoleNoteLabel string                `json:"role_note_label"`
	Status        domain.CustomerStatus `json:"status"`
	TeamName      *string               `json:"team_name,omitempty"`
	CreatedBy     string                `json:"created_by,omitempty"`
	UpdatedBy     string                `json:"updated_by,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     *time.Time            `json:"updated_at,omitempty"`
}

// CustomerListResponse wraps a page of customers.
type CustomerListResponse struct {
	Customers []CustomerResponse `json:"customers"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}
