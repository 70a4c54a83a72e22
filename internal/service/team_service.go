package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dulieucongty68/pmql-be/internal/domain"
	"github.com/dulieucongty68/pmql-be/internal/repository"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

// TeamService manages teams.
type TeamService struct {
	teams repository.TeamRepository
}

// TeamListInput describes listing filters. Zero PageSize disables pagination.
type TeamListInput struct {
	Page     int
	PageSize int
}

// NewTeamService constructs the service.
func NewTeamService(teams repository.TeamRepository) *TeamService {
	return &TeamService{teams: teams}
}

// List returns teams visible to the role: admins see all, other roles only
// their own team.
func (s *TeamService) List(ctx context.Context, role domain.Role, input TeamListInput) ([]repository.TeamRow, int64, error) {
	scope := role.TeamScope()

	limit := 0
	offset := 0
	if input.PageSize > 0 {
		limit = input.PageSize
		offset = pageOffset(input.Page, input.PageSize)
	}

	rows, err := s.teams.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.teams.Count(ctx, scope)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return rows, total, nil
}

// Create adds a new team with a unique name.
func (s *TeamService) Create(ctx context.Context, actor *domain.User, role domain.Role, name string) (*domain.Team, error) {
	if err := requirePrivileged(role); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("team_name required", nil)
	}

	if _, err := s.teams.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewConflict("team name already exists", map[string]any{"team_name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	actorID := actor.ID
	team := &domain.Team{
		Name:      name,
		CreatedBy: &actorID,
		UpdatedBy: &actorID,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// Rename changes a team's name, keeping names unique.
func (s *TeamService) Rename(ctx context.Context, actor *domain.User, role domain.Role, id int64, name string) (*domain.Team, error) {
	if err := requirePrivileged(role); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("team_name required", nil)
	}

	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if existing, err := s.teams.GetByName(ctx, name); err == nil && existing.ID != id {
		return nil, apperrors.NewConflict("team name already exists", map[string]any{"team_name": name})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	if err := s.teams.Rename(ctx, id, name, actor.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	team.Name = name
	actorID := actor.ID
	team.UpdatedBy = &actorID
	return team, nil
}
