package domain

import "time"

// UserStatus represents lifecycle states for an employee account.
type UserStatus int16

const (
	UserStatusInactive UserStatus = 0
	UserStatusActive   UserStatus = 1
)

// User is the domain model for employees of the organization.
// IsAdmin and IsTeamLead are stored as independent flags; policy code never
// reads them directly and goes through RoleOf instead.
type User struct {
	ID           int64
	Username     string
	Name         string
	PasswordHash string
	IsAdmin      bool
	IsTeamLead   bool
	IsFirstLogin bool
	Status       UserStatus
	TeamID       *int64
	CreatedBy    *int64
	UpdatedBy    *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
