package domain

import "time"

// CustomerStatus enumerates the customer handling states.
type CustomerStatus int16

const (
	CustomerStatusNew        CustomerStatus = 0
	CustomerStatusInProgress CustomerStatus = 1
	CustomerStatusClosed     CustomerStatus = 2
)

// Valid reports whether the value is one of the known states.
func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerStatusNew, CustomerStatusInProgress, CustomerStatusClosed:
		return true
	}
	return false
}

// String returns the state name for logs.
func (s CustomerStatus) String() string {
	switch s {
	case CustomerStatusNew:
		return "NEW"
	case CustomerStatusInProgress:
		return "IN_PROGRESS"
	case CustomerStatusClosed:
		return "CLOSED"
	}
	return "UNKNOWN"
}

// RoleNote categorizes the calling context recorded on a customer.
type RoleNote int16

const (
	RoleNoteNone RoleNote = 0
	RoleNoteCV   RoleNote = 1
	RoleNoteApp  RoleNote = 2
	RoleNoteDD   RoleNote = 3
	RoleNoteAD   RoleNote = 4
)

// Valid reports whether the value is a known category.
func (r RoleNote) Valid() bool {
	return r >= RoleNoteNone && r <= RoleNoteAD
}

// Label returns the short category label used in statistics.
func (r RoleNote) Label() string {
	switch r {
	case RoleNoteCV:
		return "CV"
	case RoleNoteApp:
		return "APP"
	case RoleNoteDD:
		return "DD"
	case RoleNoteAD:
		return "AD"
	default:
		return "0"
	}
}

// Customer is the aggregate governed by the status machine. PhoneNumber is
// unique across all customers.
type Customer struct {
	ID          int64
	FullName    string
	YearOfBirth int
	PhoneNumber string
	Note        string
	RoleNote    RoleNote
	Status      CustomerStatus
	TeamID      *int64
	CreatedBy   *int64
	UpdatedBy   *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
