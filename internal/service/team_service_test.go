package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

func TestTeamCreate(t *testing.T) {
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams)
	actor, role := adminActor(1)

	team, err := svc.Create(context.Background(), actor, role, "  to 1  ")
	require.NoError(t, err)
	assert.Equal(t, "to 1", team.Name)
	require.NotNil(t, team.CreatedBy)
	assert.Equal(t, int64(1), *team.CreatedBy)

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		_, err := svc.Create(context.Background(), actor, role, "to 1")
		assertCode(t, err, apperrors.CodeConflict)
	})

	t.Run("member cannot create", func(t *testing.T) {
		memberUser, memberRole := memberActor(5, team.ID)
		_, err := svc.Create(context.Background(), memberUser, memberRole, "to 2")
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), actor, role, "   ")
		assertCode(t, err, apperrors.CodeValidationFailed)
	})
}

func TestTeamRename(t *testing.T) {
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams)
	actor, role := adminActor(1)

	first, err := svc.Create(context.Background(), actor, role, "to 1")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), actor, role, "to 2")
	require.NoError(t, err)

	t.Run("rename to a free name", func(t *testing.T) {
		renamed, err := svc.Rename(context.Background(), actor, role, first.ID, "to 1 moi")
		require.NoError(t, err)
		assert.Equal(t, "to 1 moi", renamed.Name)
	})

	t.Run("rename to own current name is allowed", func(t *testing.T) {
		_, err := svc.Rename(context.Background(), actor, role, first.ID, "to 1 moi")
		require.NoError(t, err)
	})

	t.Run("rename to another team's name is a conflict", func(t *testing.T) {
		_, err := svc.Rename(context.Background(), actor, role, first.ID, "to 2")
		assertCode(t, err, apperrors.CodeConflict)
	})

	t.Run("missing team is not found", func(t *testing.T) {
		_, err := svc.Rename(context.Background(), actor, role, 999, "x")
		assertCode(t, err, apperrors.CodeNotFound)
	})
}

func TestTeamListScoping(t *testing.T) {
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams)
	actor, role := adminActor(1)

	first, err := svc.Create(context.Background(), actor, role, "to 1")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), actor, role, "to 2")
	require.NoError(t, err)

	rows, total, err := svc.List(context.Background(), role, TeamListInput{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(2), total)

	_, memberRole := memberActor(5, first.ID)
	rows, total, err = svc.List(context.Background(), memberRole, TeamListInput{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, first.ID, rows[0].ID)
}
