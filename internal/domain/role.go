package domain

// RoleKind enumerates the closed set of policy roles.
type RoleKind string

const (
	RoleKindAdmin    RoleKind = "ADMIN"
	RoleKindTeamLead RoleKind = "TEAM_LEAD"
	RoleKindMember   RoleKind = "MEMBER"
)

// Role is the resolved authorization context for an acting employee.
// Every policy decision switches on Kind exhaustively; TeamID is meaningful
// only for team leads and members.
type Role struct {
	Kind   RoleKind
	TeamID *int64
}

// AdminRole builds the unrestricted role.
func AdminRole() Role {
	return Role{Kind: RoleKindAdmin}
}

// TeamLeadRole builds a team lead role scoped to the given team.
func TeamLeadRole(teamID *int64) Role {
	return Role{Kind: RoleKindTeamLead, TeamID: teamID}
}

// MemberRole builds a plain member role scoped to the given team.
func MemberRole(teamID *int64) Role {
	return Role{Kind: RoleKindMember, TeamID: teamID}
}

// RoleOf derives the policy role from the stored user flags. When both flags
// are set the admin grant wins.
func RoleOf(user *User) Role {
	switch {
	case user.IsAdmin:
		return AdminRole()
	case user.IsTeamLead:
		return TeamLeadRole(user.TeamID)
	default:
		return MemberRole(user.TeamID)
	}
}

// Privileged reports whether the role may perform elevated mutations such as
// reopening closed customers.
func (r Role) Privileged() bool {
	return r.Kind == RoleKindAdmin || r.Kind == RoleKindTeamLead
}

// Label returns the human-readable role label used in listings.
func (r Role) Label() string {
	switch r.Kind {
	case RoleKindAdmin:
		return "Quản lý"
	case RoleKindTeamLead:
		return "Tổ trưởng"
	default:
		return "Nhân viên"
	}
}
