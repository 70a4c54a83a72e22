package dto

import "time"

// CreateTeamRequest payload.
type CreateTeamRequest struct {
	TeamName string `json:"team_name"`
}

// UpdateTeamRequest payload.
type UpdateTeamRequest struct {
	TeamName string `json:"team_name"`
}

// TeamResponse representation.
type TeamResponse struct {
	ID        int64     `json:"id"`
	TeamName  string    `json:"team_name"`
	CreatedBy *string   `json:"created_by,omitempty"`
	UpdatedBy *string   `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamListResponse wraps the team listing.
type TeamListResponse struct {
	Teams []TeamResponse `json:"teams"`
	Total int64          `json:"total"`
}
