package events

import (
	"time"

	"github.com/dulieucongty68/pmql-be/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerCreated       EventType = "customer_created"
	EventCustomerStatusChanged EventType = "customer_status_changed"
	EventCustomerDeleted       EventType = "customer_deleted"
	EventEmployeeCreated       EventType = "employee_created"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID int64           `json:"user_id"`
	Role   domain.RoleKind `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	CustomerID int64       `json:"customer_id,omitempty"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// CustomerCreatedPayload payload.
type CustomerCreatedPayload struct {
	PhoneNumber string          `json:"phone_number"`
	TeamID      *int64          `json:"team_id,omitempty"`
	RoleNote    domain.RoleNote `json:"role_note"`
}

// CustomerStatusChangedPayload payload.
type CustomerStatusChangedPayload struct {
	OldStatus domain.CustomerStatus `json:"old_status"`
	NewStatus domain.CustomerStatus `json:"new_status"`
	Reopened  bool                  `json:"reopened,omitempty"`
}

// CustomerDeletedPayload payload.
type CustomerDeletedPayload struct {
	Status domain.CustomerStatus `json:"status"`
}

// EmployeeCreatedPayload payload.
type EmployeeCreatedPayload struct {
	EmployeeID int64  `json:"employee_id"`
	Username   string `json:"username"`
	TeamID     *int64 `json:"team_id,omitempty"`
}
