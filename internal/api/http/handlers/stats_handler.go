package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dulieucongty68/pmql-be/internal/api/dto"
	"github.com/dulieucongty68/pmql-be/internal/domain"
	"github.com/dulieucongty68/pmql-be/internal/service"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

// StatsHandler exposes the monthly call statistics endpoint.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// CallStats handles GET /statistics/calls. The optional role_note query
// parameter narrows the aggregation to one customer category.
func (h *StatsHandler) CallStats(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}

	var roleNote *domain.RoleNote
	if raw := c.Query("role_note"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 16)
		if err != nil {
			return apperrors.NewValidationError("invalid role_note", nil)
		}
		rn := domain.RoleNote(value)
		roleNote = &rn
	}

	stats, err := h.stats.CallStats(c.UserContext(), roleNote)
	if err != nil {
		return err
	}

	response := dto.CallStatsResponse{
		Month: time.Now().Format("2006-01"),
		Stats: make([]dto.CallStatEntry, 0, len(stats)),
	}
	for _, stat := range stats {
		response.Stats = append(response.Stats, dto.CallStatEntry{
			TeamID:        stat.TeamID,
			TeamName:      stat.TeamName,
			RoleNote:      stat.RoleNote,
			RoleNoteLabel: stat.RoleNote.Label(),
			CallCount:     stat.CallCount,
		})
	}
	return c.JSON(response)
}
