package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dulieucongty68/pmql-be/internal/auth"
	"github.com/dulieucongty68/pmql-be/internal/config"
	"github.com/dulieucongty68/pmql-be/internal/domain"
	"github.com/dulieucongty68/pmql-be/internal/events"
	"github.com/dulieucongty68/pmql-be/internal/repository"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

// Employee role codes accepted on creation.
const (
	RoleCodeAdmin    = "0"
	RoleCodeTeamLead = "1"
)

// EmployeeService manages employee accounts.
type EmployeeService struct {
	users      repository.UserRepository
	teams      repository.TeamRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// EmployeeDependencies bundles collaborators for the employee service.
type EmployeeDependencies struct {
	UserRepo   repository.UserRepository
	TeamRepo   repository.TeamRepository
	Dispatcher events.Dispatcher
}

// EmployeeCreateInput describes employee creation payload.
type EmployeeCreateInput struct {
	Username string
	Name     string
	RoleCode string
	Status   *domain.UserStatus
	TeamID   int64
}

// EmployeeUpdateInput is the typed patch for employee edits.
type EmployeeUpdateInput struct {
	Name         *string
	Username     *string
	Password     *string
	TeamID       *int64
	Status       *domain.UserStatus
	IsFirstLogin *bool
}

// EmployeeListInput describes listing filters.
type EmployeeListInput struct {
	Page     int
	PageSize int
}

// NewEmployeeService constructs the service.
func NewEmployeeService(cfg config.Config, deps EmployeeDependencies) *EmployeeService {
	return &EmployeeService{
		users:      deps.UserRepo,
		teams:      deps.TeamRepo,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

func requireAdmin(role domain.Role) error {
	if role.Kind != domain.RoleKindAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

func requirePrivileged(role domain.Role) error {
	if !role.Privileged() {
		return apperrors.NewForbidden("admin or team lead role required")
	}
	return nil
}

// Create registers a new employee. The initial password is the username and
// the account is flagged for a forced password change on first login.
func (s *EmployeeService) Create(ctx context.Context, actor *domain.User, role domain.Role, input EmployeeCreateInput) (*domain.User, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" || strings.TrimSpace(input.Name) == "" || input.TeamID == 0 {
		return nil, apperrors.NewValidationError("username, name and team_id required", nil)
	}

	if _, err := s.teams.GetByID(ctx, input.TeamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("team does not exist", map[string]any{"team_id": input.TeamID})
		}
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(username, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	status := domain.UserStatusActive
	if input.Status != nil {
		status = *input.Status
	}

	actorID := actor.ID
	teamID := input.TeamID
	user := &domain.User{
		Username:     username,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		IsAdmin:      input.RoleCode == RoleCodeAdmin,
		IsTeamLead:   input.RoleCode == RoleCodeTeamLead,
		IsFirstLogin: true,
		Status:       status,
		TeamID:       &teamID,
		CreatedBy:    &actorID,
		UpdatedBy:    &actorID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventEmployeeCreated,
		Actor: events.Actor{UserID: actor.ID, Role: role.Kind},
		Payload: events.EmployeeCreatedPayload{
			EmployeeID: user.ID,
			Username:   user.Username,
			TeamID:     user.TeamID,
		},
	})
	return user, nil
}

// List returns non-admin employees visible to the role.
func (s *EmployeeService) List(ctx context.Context, role domain.Role, input EmployeeListInput) ([]repository.EmployeeRow, int64, error) {
	filter := repository.EmployeeFilter{
		ExcludeAdmins: true,
		TeamID:        role.TeamScope(),
		Limit:         input.PageSize,
		Offset:        pageOffset(input.Page, input.PageSize),
	}
	rows, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return rows, total, nil
}

// Update applies a typed patch to an employee row. Members may only update
// themselves; admins and team leads may update anyone.
func (s *EmployeeService) Update(ctx context.Context, actor *domain.User, role domain.Role, targetID int64, input EmployeeUpdateInput) error {
	if !domain.CanUpdateEmployee(role, actor.ID, targetID) {
		return apperrors.NewForbidden("you are not authorized to update this user")
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": targetID})
		}
		return apperrors.MapError(err)
	}

	patch := repository.UserPatch{
		Name:         input.Name,
		Username:     input.Username,
		TeamID:       input.TeamID,
		Status:       input.Status,
		IsFirstLogin: input.IsFirstLogin,
		UpdatedBy:    actor.ID,
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return apperrors.MapError(err)
		}
		patch.PasswordHash = &hash
	}

	return apperrors.MapError(s.users.ApplyPatch(ctx, targetID, patch))
}

// ResetPassword resets an employee's password back to their username and
// forces a password change on next login.
func (s *EmployeeService) ResetPassword(ctx context.Context, role domain.Role, targetID int64) error {
	if err := requirePrivileged(role); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": targetID})
		}
		return apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(user.Username, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	return apperrors.MapError(s.users.UpdatePassword(ctx, user.ID, hash, true))
}

func (s *EmployeeService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
