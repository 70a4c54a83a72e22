package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dulieucongty68/pmql-be/internal/domain"
	"github.com/dulieucongty68/pmql-be/internal/events"
	"github.com/dulieucongty68/pmql-be/internal/repository"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

// CustomerService coordinates customer workflows.
type CustomerService struct {
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// CustomerDependencies bundles collaborators for the customer service.
type CustomerDependencies struct {
	CustomerRepo repository.CustomerRepository
	Dispatcher   events.Dispatcher
	Now          func() time.Time
}

// CustomerCreateInput describes customer creation payload.
type CustomerCreateInput struct {
	FullName    string
	YearOfBirth int
	PhoneNumber string
	Note        string
	RoleNote    domain.RoleNote
	Status      *domain.CustomerStatus
	TeamID      *int64
}

// CustomerUpdateInput is the typed patch accepted from callers. Only present
// fields are applied.
type CustomerUpdateInput struct {
	FullName    *string
	YearOfBirth *int
	PhoneNumber *string
	Note        *string
	RoleNote    *domain.RoleNote
	TeamID      *int64
	Status      *domain.CustomerStatus
}

// CustomerListInput describes listing filters.
type CustomerListInput struct {
	Search   *string
	Page     int
	PageSize int
}

// NewCustomerService constructs the service.
func NewCustomerService(deps CustomerDependencies) *CustomerService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &CustomerService{
		customers:  deps.CustomerRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// Create registers a new customer. Phone numbers are unique across the whole
// customer base.
func (s *CustomerService) Create(ctx context.Context, actor *domain.User, role domain.Role, input CustomerCreateInput) (*domain.Customer, error) {
	phone := strings.TrimSpace(input.PhoneNumber)
	if phone == "" {
		return nil, apperrors.NewValidationError("phone_number required", nil)
	}
	if !input.RoleNote.Valid() {
		return nil, apperrors.NewValidationError("invalid role_note", nil)
	}

	status := domain.CustomerStatusNew
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", nil)
		}
		status = *input.Status
	}

	if _, err := s.customers.GetByPhone(ctx, phone); err == nil {
		return nil, apperrors.NewConflict("phone number already exists", map[string]any{"phone_number": phone})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	actorID := actor.ID
	customer := &domain.Customer{
		FullName:    strings.TrimSpace(input.FullName),
		YearOfBirth: input.YearOfBirth,
		PhoneNumber: phone,
		Note:        input.Note,
		RoleNote:    input.RoleNote,
		Status:      status,
		TeamID:      input.TeamID,
		CreatedBy:   &actorID,
		UpdatedBy:   &actorID,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventCustomerCreated,
		CustomerID: customer.ID,
		Actor:      events.Actor{UserID: actor.ID, Role: role.Kind},
		Payload: events.CustomerCreatedPayload{
			PhoneNumber: customer.PhoneNumber,
			TeamID:      customer.TeamID,
			RoleNote:    customer.RoleNote,
		},
	})
	return customer, nil
}

// List returns customers visible to the role, plus the unscoped-for-admin
// total for pagination.
func (s *CustomerService) List(ctx context.Context, role domain.Role, input CustomerListInput) ([]repository.CustomerRow, int64, error) {
	filter := repository.CustomerFilter{
		TeamScope: role.TeamScope(),
		Search:    input.Search,
		Limit:     input.PageSize,
		Offset:    pageOffset(input.Page, input.PageSize),
	}
	rows, err := s.customers.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.customers.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return rows, total, nil
}

// Update applies a typed patch to a customer. Status changes route through
// the transition rules; any edit of a closed customer is privileged. The
// write is conditional on the status read here, so a concurrent transition
// surfaces as a conflict instead of a lost update.
func (s *CustomerService) Update(ctx context.Context, actor *domain.User, role domain.Role, id int64, input CustomerUpdateInput) (*domain.Customer, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", nil)
	}
	if input.RoleNote != nil && !input.RoleNote.Valid() {
		return nil, apperrors.NewValidationError("invalid role_note", nil)
	}

	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !domain.CanViewCustomer(role, customer) {
		return nil, apperrors.NewForbidden("customer outside your team")
	}

	var verdict domain.StatusChange
	statusChanging := input.Status != nil && *input.Status != customer.Status
	if statusChanging {
		verdict, err = domain.DecideTransition(customer.Status, *input.Status, role, actor.ID, s.now())
	} else {
		verdict, err = domain.DecideMutation(customer.Status, role, actor.ID, s.now())
	}
	if err != nil {
		return nil, mapDecisionError(err)
	}

	patch := repository.CustomerPatch{
		FullName:    input.FullName,
		YearOfBirth: input.YearOfBirth,
		PhoneNumber: input.PhoneNumber,
		Note:        input.Note,
		RoleNote:    input.RoleNote,
		TeamID:      input.TeamID,
		Status:      input.Status,
		UpdatedBy:   verdict.UpdatedBy,
		UpdatedAt:   verdict.UpdatedAt,
	}
	if err := s.customers.ApplyPatch(ctx, id, customer.Status, patch); err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusChanged):
			return nil, apperrors.NewConflict("customer was modified concurrently", map[string]any{"id": id})
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("customer", map[string]any{"id": id})
		default:
			return nil, apperrors.MapError(err)
		}
	}

	if statusChanging {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventCustomerStatusChanged,
			CustomerID: id,
			Actor:      events.Actor{UserID: actor.ID, Role: role.Kind},
			Payload: events.CustomerStatusChangedPayload{
				OldStatus: customer.Status,
				NewStatus: *input.Status,
				Reopened:  customer.Status == domain.CustomerStatusClosed,
			},
		})
	}

	updated, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return updated, nil
}

// Delete removes a customer under the deletion policy: admins always, other
// roles only while the customer is not closed.
func (s *CustomerService) Delete(ctx context.Context, actor *domain.User, role domain.Role, id int64) error {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("customer", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	if !domain.CanDeleteCustomer(role, customer.Status) {
		return apperrors.NewForbidden("closed customers can only be deleted by an admin")
	}

	if err := s.customers.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventCustomerDeleted,
		CustomerID: id,
		Actor:      events.Actor{UserID: actor.ID, Role: role.Kind},
		Payload:    events.CustomerDeletedPayload{Status: customer.Status},
	})
	return nil
}

// Export returns every customer row for spreadsheet export.
func (s *CustomerService) Export(ctx context.Context) ([]repository.CustomerRow, error) {
	rows, err := s.customers.ExportAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

func (s *CustomerService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapDecisionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUnknownStatus):
		return apperrors.NewValidationError("invalid status", nil)
	case errors.Is(err, domain.ErrTransitionNotOffered):
		return apperrors.NewValidationError("status transition not allowed", nil)
	case errors.Is(err, domain.ErrClosedRequiresPrivilege):
		return apperrors.NewForbidden("only admin or team lead can update a closed customer")
	default:
		return apperrors.MapError(err)
	}
}

func pageOffset(page, pageSize int) int {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return (page - 1) * pageSize
}
