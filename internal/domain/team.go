package domain

import "time"

// Team groups employees and customers. Name is unique across the org.
type Team struct {
	ID        int64
	Name      string
	CreatedBy *int64
	UpdatedBy *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
