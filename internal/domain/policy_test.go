package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeamScope(t *testing.T) {
	assert.Nil(t, AdminRole().TeamScope())

	scope := TeamLeadRole(teamID(3)).TeamScope()
	if assert.NotNil(t, scope) {
		assert.Equal(t, int64(3), *scope)
	}

	scope = MemberRole(teamID(5)).TeamScope()
	if assert.NotNil(t, scope) {
		assert.Equal(t, int64(5), *scope)
	}
}

func TestCanViewCustomer(t *testing.T) {
	sameTeam := &Customer{TeamID: teamID(3)}
	otherTeam := &Customer{TeamID: teamID(4)}
	noTeam := &Customer{}

	assert.True(t, CanViewCustomer(AdminRole(), otherTeam))
	assert.True(t, CanViewCustomer(AdminRole(), noTeam))

	lead := TeamLeadRole(teamID(3))
	assert.True(t, CanViewCustomer(lead, sameTeam))
	assert.False(t, CanViewCustomer(lead, otherTeam))
	assert.False(t, CanViewCustomer(lead, noTeam))

	member := MemberRole(teamID(3))
	assert.True(t, CanViewCustomer(member, sameTeam))
	assert.False(t, CanViewCustomer(member, otherTeam))
}

func TestCanDeleteCustomer(t *testing.T) {
	assert.True(t, CanDeleteCustomer(AdminRole(), CustomerStatusClosed))
	assert.True(t, CanDeleteCustomer(AdminRole(), CustomerStatusNew))

	lead := TeamLeadRole(teamID(1))
	assert.True(t, CanDeleteCustomer(lead, CustomerStatusInProgress))
	assert.False(t, CanDeleteCustomer(lead, CustomerStatusClosed))

	member := MemberRole(teamID(1))
	assert.True(t, CanDeleteCustomer(member, CustomerStatusNew))
	assert.False(t, CanDeleteCustomer(member, CustomerStatusClosed))
}

func TestCanUpdateEmployee(t *testing.T) {
	assert.True(t, CanUpdateEmployee(AdminRole(), 1, 2))
	assert.True(t, CanUpdateEmployee(TeamLeadRole(teamID(1)), 1, 2))

	member := MemberRole(teamID(1))
	assert.True(t, CanUpdateEmployee(member, 9, 9))
	assert.False(t, CanUpdateEmployee(member, 9, 10))
}
