package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dulieucongty68/pmql-be/internal/api/dto"
	"github.com/dulieucongty68/pmql-be/internal/service"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

// TeamsHandler exposes team listing and management endpoints.
type TeamsHandler struct {
	teams *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teams *service.TeamService) *TeamsHandler {
	return &TeamsHandler{teams: teams}
}

// List handles GET /teams. Pagination is optional; without page_size the
// full visible set is returned.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	input := service.TeamListInput{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 0),
	}
	rows, total, err := h.teams.List(c.UserContext(), principal.Role, input)
	if err != nil {
		return err
	}

	response := dto.TeamListResponse{
		Teams: make([]dto.TeamResponse, 0, len(rows)),
		Total: total,
	}
	for _, row := range rows {
		response.Teams = append(response.Teams, teamRowResponse(row))
	}
	return c.JSON(response)
}

// Create handles POST /teams.
func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	name := strings.TrimSpace(req.TeamName)
	if name == "" {
		return apperrors.NewValidationError("team_name required", nil)
	}

	team, err := h.teams.Create(c.UserContext(), principal.User, principal.Role, name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.TeamResponse{
		ID:        team.ID,
		TeamName:  team.Name,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	})
}

// Update handles PUT /teams/:id.
func (h *TeamsHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	name := strings.TrimSpace(req.TeamName)
	if name == "" {
		return apperrors.NewValidationError("team_name required", nil)
	}

	team, err := h.teams.Rename(c.UserContext(), principal.User, principal.Role, id, name)
	if err != nil {
		return err
	}
	return c.JSON(dto.TeamResponse{
		ID:        team.ID,
		TeamName:  team.Name,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	})
}
