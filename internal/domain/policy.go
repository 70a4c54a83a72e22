package domain

// TeamScope returns the team filter a listing must apply for the role, or
// nil when the role sees every row.
func (r Role) TeamScope() *int64 {
	if r.Kind == RoleKindAdmin {
		return nil
	}
	return r.TeamID
}

// CanViewCustomer reports whether the role may read the given customer row.
func CanViewCustomer(role Role, customer *Customer) bool {
	scope := role.TeamScope()
	if scope == nil {
		return true
	}
	return customer.TeamID != nil && *customer.TeamID == *scope
}

// CanDeleteCustomer applies the deletion rule: admins delete anything,
// everyone else only customers that are not closed.
func CanDeleteCustomer(role Role, status CustomerStatus) bool {
	if role.Kind == RoleKindAdmin {
		return true
	}
	return status != CustomerStatusClosed
}

// CanUpdateEmployee applies the self-service rule: admins and team leads may
// update any employee, members only their own row.
func CanUpdateEmployee(role Role, actorID, targetID int64) bool {
	if role.Privileged() {
		return true
	}
	return actorID == targetID
}
