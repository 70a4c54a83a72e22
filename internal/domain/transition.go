package domain

import (
	"errors"
	"time"
)

// Decision errors returned by the status machine and the access policy.
// Services translate these into the transport error taxonomy.
var (
	// ErrUnknownStatus rejects an unrecognized status value before any role
	// check runs.
	ErrUnknownStatus = errors.New("unknown customer status")
	// ErrTransitionNotOffered rejects transitions that no caller may request,
	// currently only CLOSED -> NEW.
	ErrTransitionNotOffered = errors.New("status transition not offered")
	// ErrClosedRequiresPrivilege rejects any mutation of a closed customer by
	// a plain member.
	ErrClosedRequiresPrivilege = errors.New("closed customer requires admin or team lead")
)

// StatusChange is the accept verdict of the status machine: the audit fields
// to persist alongside the mutation. UpdatedBy is nil when the transition is
// a privileged reopen, which is deliberately not attributed to a handler.
type StatusChange struct {
	UpdatedBy *int64
	UpdatedAt time.Time
}

// DecideTransition validates a requested status change under the acting role
// and computes the resulting audit attribution. It is a pure function of its
// inputs: callers must read current within the same consistency scope as the
// write that applies the verdict.
func DecideTransition(current, requested CustomerStatus, role Role, actorID int64, now time.Time) (StatusChange, error) {
	if !requested.Valid() || !current.Valid() {
		return StatusChange{}, ErrUnknownStatus
	}

	if current == CustomerStatusClosed {
		if !role.Privileged() {
			return StatusChange{}, ErrClosedRequiresPrivilege
		}
		if requested == CustomerStatusNew {
			return StatusChange{}, ErrTransitionNotOffered
		}
		// Reopening is a privileged override: the customer no longer has a
		// "last handler", so attribution is cleared.
		return StatusChange{UpdatedBy: nil, UpdatedAt: now}, nil
	}

	return StatusChange{UpdatedBy: &actorID, UpdatedAt: now}, nil
}

// DecideMutation guards non-status edits: once a customer is closed only
// admins and team leads may touch the record, regardless of which field
// changes.
func DecideMutation(current CustomerStatus, role Role, actorID int64, now time.Time) (StatusChange, error) {
	if !current.Valid() {
		return StatusChange{}, ErrUnknownStatus
	}
	if current == CustomerStatusClosed {
		if !role.Privileged() {
			return StatusChange{}, ErrClosedRequiresPrivilege
		}
		return StatusChange{UpdatedBy: nil, UpdatedAt: now}, nil
	}
	return StatusChange{UpdatedBy: &actorID, UpdatedAt: now}, nil
}
