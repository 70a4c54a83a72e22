package dto

import "github.com/dulieucongty68/pmql-be/internal/domain"

// CallStatEntry is one aggregated call-count row.
type CallStatEntry struct {
	TeamID        int64           `json:"team_id"`
	TeamName      string          `json:"team_name"`
	RoleNote      domain.RoleNote `json:"role_note"`
	RoleNoteLabel string          `json:"role_note_label"`
	CallCount     int64           `json:"call_count"`
}

// CallStatsResponse wraps the monthly statistics.
type CallStatsResponse struct {
	Month string          `json:"month"`
	Stats []CallStatEntry `json:"stats"`
}
