package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulieucongty68/pmql-be/internal/auth"
	"github.com/dulieucongty68/pmql-be/internal/config"
	"github.com/dulieucongty68/pmql-be/internal/domain"
	"github.com/dulieucongty68/pmql-be/internal/repository"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

// fakeUserRepo is an in-memory UserRepository backed by a map.
type fakeUserRepo struct {
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int64]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = f.nextID
	f.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) ApplyPatch(_ context.Context, id int64, patch repository.UserPatch) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.PasswordHash != nil {
		user.PasswordHash = *patch.PasswordHash
	}
	if patch.TeamID != nil {
		user.TeamID = patch.TeamID
	}
	if patch.Status != nil {
		user.Status = *patch.Status
	}
	if patch.IsFirstLogin != nil {
		user.IsFirstLogin = *patch.IsFirstLogin
	}
	updatedBy := patch.UpdatedBy
	user.UpdatedBy = &updatedBy
	user.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string, firstLogin bool) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	user.IsFirstLogin = firstLogin
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, filter repository.EmployeeFilter) ([]repository.EmployeeRow, error) {
	var rows []repository.EmployeeRow
	for _, user := range f.users {
		if filter.ExcludeAdmins && user.IsAdmin {
			continue
		}
		if filter.TeamID != nil {
			if user.TeamID == nil || *user.TeamID != *filter.TeamID {
				continue
			}
		}
		rows = append(rows, repository.EmployeeRow{User: *user})
	}
	return rows, nil
}

func (f *fakeUserRepo) Count(ctx context.Context, filter repository.EmployeeFilter) (int64, error) {
	rows, err := f.List(ctx, filter)
	return int64(len(rows)), err
}

// fakeTeamRepo is an in-memory TeamRepository backed by a map.
type fakeTeamRepo struct {
	nextID int64
	teams  map[int64]*domain.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{nextID: 1, teams: map[int64]*domain.Team{}}
}

func (f *fakeTeamRepo) Create(_ context.Context, team *domain.Team) error {
	team.ID = f.nextID
	f.nextID++
	now := time.Now()
	team.CreatedAt = now
	team.UpdatedAt = now
	clone := *team
	f.teams[team.ID] = &clone
	return nil
}

func (f *fakeTeamRepo) Rename(_ context.Context, id int64, name string, updatedBy int64) error {
	team, ok := f.teams[id]
	if !ok {
		return pgx.ErrNoRows
	}
	team.Name = name
	team.UpdatedBy = &updatedBy
	team.UpdatedAt = time.Now()
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int64) (*domain.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *team
	return &clone, nil
}

func (f *fakeTeamRepo) GetByName(_ context.Context, name string) (*domain.Team, error) {
	for _, team := range f.teams {
		if team.Name == name {
			clone := *team
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTeamRepo) List(_ context.Context, scope *int64, _, _ int) ([]repository.TeamRow, error) {
	var rows []repository.TeamRow
	for _, team := range f.teams {
		if scope != nil && team.ID != *scope {
			continue
		}
		rows = append(rows, repository.TeamRow{Team: *team})
	}
	return rows, nil
}

func (f *fakeTeamRepo) Count(ctx context.Context, scope *int64) (int64, error) {
	rows, err := f.List(ctx, scope, 0, 0)
	return int64(len(rows)), err
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{BcryptCost: 4}}
}

func seedTeam(t *testing.T, repo *fakeTeamRepo, name string) *domain.Team {
	t.Helper()
	team := &domain.Team{Name: name}
	require.NoError(t, repo.Create(context.Background(), team))
	return team
}

func TestEmployeeCreate(t *testing.T) {
	users := newFakeUserRepo()
	teams := newFakeTeamRepo()
	svc := NewEmployeeService(testConfig(), EmployeeDependencies{UserRepo: users, TeamRepo: teams})
	team := seedTeam(t, teams, "to 1")
	actor, role := adminActor(1)

	employee, err := svc.Create(context.Background(), actor, role, EmployeeCreateInput{
		Username: "nv01",
		Name:     "Nguyen Van A",
		RoleCode: "2",
		TeamID:   team.ID,
	})
	require.NoError(t, err)
	assert.True(t, employee.IsFirstLogin)
	assert.False(t, employee.IsAdmin)
	assert.False(t, employee.IsTeamLead)
	// initial password equals the username
	assert.NoError(t, auth.ComparePassword(employee.PasswordHash, "nv01"))

	t.Run("team lead role code sets the flag", func(t *testing.T) {
		lead, err := svc.Create(context.Background(), actor, role, EmployeeCreateInput{
			Username: "tl01",
			Name:     "To Truong",
			RoleCode: RoleCodeTeamLead,
			TeamID:   team.ID,
		})
		require.NoError(t, err)
		assert.True(t, lead.IsTeamLead)
	})

	t.Run("non admin cannot create", func(t *testing.T) {
		memberUser, memberRole := memberActor(5, team.ID)
		_, err := svc.Create(context.Background(), memberUser, memberRole, EmployeeCreateInput{
			Username: "nv02",
			Name:     "B",
			TeamID:   team.ID,
		})
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("unknown team is rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), actor, role, EmployeeCreateInput{
			Username: "nv03",
			Name:     "C",
			TeamID:   999,
		})
		assertCode(t, err, apperrors.CodeValidationFailed)
	})
}

func TestEmployeeUpdateSelfService(t *testing.T) {
	users := newFakeUserRepo()
	teams := newFakeTeamRepo()
	svc := NewEmployeeService(testConfig(), EmployeeDependencies{UserRepo: users, TeamRepo: teams})
	team := seedTeam(t, teams, "to 1")

	target := &domain.User{Username: "nv10", Name: "D", TeamID: &team.ID}
	require.NoError(t, users.Create(context.Background(), target))

	t.Run("member updates own row", func(t *testing.T) {
		actor, role := memberActor(target.ID, team.ID)
		name := "D Updated"
		require.NoError(t, svc.Update(context.Background(), actor, role, target.ID, EmployeeUpdateInput{Name: &name}))

		stored, err := users.GetByID(context.Background(), target.ID)
		require.NoError(t, err)
		assert.Equal(t, "D Updated", stored.Name)
	})

	t.Run("member cannot update someone else", func(t *testing.T) {
		actor, role := memberActor(target.ID+100, team.ID)
		name := "X"
		err := svc.Update(context.Background(), actor, role, target.ID, EmployeeUpdateInput{Name: &name})
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("team lead updates anyone and password is rehashed", func(t *testing.T) {
		leadUser := &domain.User{ID: 50, IsTeamLead: true, TeamID: &team.ID}
		password := "new-pass"
		err := svc.Update(context.Background(), leadUser, domain.RoleOf(leadUser), target.ID, EmployeeUpdateInput{Password: &password})
		require.NoError(t, err)

		stored, err := users.GetByID(context.Background(), target.ID)
		require.NoError(t, err)
		assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "new-pass"))
	})
}

func TestEmployeeResetPassword(t *testing.T) {
	users := newFakeUserRepo()
	teams := newFakeTeamRepo()
	svc := NewEmployeeService(testConfig(), EmployeeDependencies{UserRepo: users, TeamRepo: teams})
	team := seedTeam(t, teams, "to 1")

	target := &domain.User{Username: "nv20", Name: "E", TeamID: &team.ID}
	require.NoError(t, users.Create(context.Background(), target))

	t.Run("member cannot reset", func(t *testing.T) {
		_, role := memberActor(99, team.ID)
		err := svc.ResetPassword(context.Background(), role, target.ID)
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("team lead resets to username with forced change", func(t *testing.T) {
		_, role := adminActor(1)
		require.NoError(t, svc.ResetPassword(context.Background(), role, target.ID))

		stored, err := users.GetByID(context.Background(), target.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsFirstLogin)
		assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "nv20"))
	})

	t.Run("missing employee is not found", func(t *testing.T) {
		_, role := adminActor(1)
		err := svc.ResetPassword(context.Background(), role, 999)
		assertCode(t, err, apperrors.CodeNotFound)
	})
}

func TestEmployeeListExcludesAdmins(t *testing.T) {
	users := newFakeUserRepo()
	teams := newFakeTeamRepo()
	svc := NewEmployeeService(testConfig(), EmployeeDependencies{UserRepo: users, TeamRepo: teams})
	team := seedTeam(t, teams, "to 1")

	require.NoError(t, users.Create(context.Background(), &domain.User{Username: "admin", IsAdmin: true}))
	require.NoError(t, users.Create(context.Background(), &domain.User{Username: "nv30", TeamID: &team.ID}))

	_, role := adminActor(1)
	rows, total, err := svc.List(context.Background(), role, EmployeeListInput{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "nv30", rows[0].Username)
}
