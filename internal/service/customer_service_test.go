package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulieucongty68/pmql-be/internal/domain"
	"github.com/dulieucongty68/pmql-be/internal/events"
	"github.com/dulieucongty68/pmql-be/internal/repository"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

// fakeCustomerRepo is an in-memory CustomerRepository backed by a map.
type fakeCustomerRepo struct {
	nextID    int64
	customers map[int64]*domain.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{nextID: 1, customers: map[int64]*domain.Customer{}}
}

func (f *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	customer.ID = f.nextID
	f.nextID++
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	clone := *customer
	f.customers[customer.ID] = &clone
	return nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *customer
	return &clone, nil
}

func (f *fakeCustomerRepo) GetByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	for _, customer := range f.customers {
		if customer.PhoneNumber == phone {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCustomerRepo) ApplyPatch(_ context.Context, id int64, expected domain.CustomerStatus, patch repository.CustomerPatch) error {
	customer, ok := f.customers[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if customer.Status != expected {
		return repository.ErrStatusChanged
	}
	if patch.FullName != nil {
		customer.FullName = *patch.FullName
	}
	if patch.YearOfBirth != nil {
		customer.YearOfBirth = *patch.YearOfBirth
	}
	if patch.PhoneNumber != nil {
		customer.PhoneNumber = *patch.PhoneNumber
	}
	if patch.Note != nil {
		customer.Note = *patch.Note
	}
	if patch.RoleNote != nil {
		customer.RoleNote = *patch.RoleNote
	}
	if patch.TeamID != nil {
		customer.TeamID = patch.TeamID
	}
	if patch.Status != nil {
		customer.Status = *patch.Status
	}
	customer.UpdatedBy = patch.UpdatedBy
	customer.UpdatedAt = patch.UpdatedAt
	return nil
}

func (f *fakeCustomerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.customers[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) List(_ context.Context, filter repository.CustomerFilter) ([]repository.CustomerRow, error) {
	var rows []repository.CustomerRow
	for _, customer := range f.customers {
		if filter.TeamScope != nil {
			if customer.TeamID == nil || *customer.TeamID != *filter.TeamScope {
				continue
			}
		}
		rows = append(rows, repository.CustomerRow{Customer: *customer})
	}
	return rows, nil
}

func (f *fakeCustomerRepo) Count(ctx context.Context, filter repository.CustomerFilter) (int64, error) {
	rows, err := f.List(ctx, filter)
	return int64(len(rows)), err
}

func (f *fakeCustomerRepo) ExportAll(_ context.Context) ([]repository.CustomerRow, error) {
	return f.List(context.Background(), repository.CustomerFilter{})
}

func fixedClock() func() time.Time {
	at := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func newCustomerService(repo *fakeCustomerRepo) *CustomerService {
	return NewCustomerService(CustomerDependencies{
		CustomerRepo: repo,
		Dispatcher:   events.NewInMemoryDispatcher(),
		Now:          fixedClock(),
	})
}

func memberActor(id, team int64) (*domain.User, domain.Role) {
	user := &domain.User{ID: id, TeamID: &team}
	return user, domain.RoleOf(user)
}

func adminActor(id int64) (*domain.User, domain.Role) {
	user := &domain.User{ID: id, IsAdmin: true}
	return user, domain.RoleOf(user)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
}

func seedCustomer(t *testing.T, repo *fakeCustomerRepo, phone string, team int64, status domain.CustomerStatus) *domain.Customer {
	t.Helper()
	teamID := team
	customer := &domain.Customer{
		FullName:    "Nguyen Van A",
		PhoneNumber: phone,
		Status:      status,
		TeamID:      &teamID,
	}
	require.NoError(t, repo.Create(context.Background(), customer))
	repo.customers[customer.ID].Status = status
	return customer
}

func TestCustomerCreate(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := newCustomerService(repo)
	actor, role := memberActor(9, 1)

	customer, err := svc.Create(context.Background(), actor, role, CustomerCreateInput{
		FullName:    "  Tran Thi B  ",
		PhoneNumber: "0900000000",
		RoleNote:    domain.RoleNoteCV,
	})
	require.NoError(t, err)
	assert.Equal(t, "Tran Thi B", customer.FullName)
	assert.Equal(t, domain.CustomerStatusNew, customer.Status)
	require.NotNil(t, customer.CreatedBy)
	assert.Equal(t, int64(9), *customer.CreatedBy)

	t.Run("duplicate phone is a conflict", func(t *testing.T) {
		_, err := svc.Create(context.Background(), actor, role, CustomerCreateInput{
			PhoneNumber: "0900000000",
		})
		assertCode(t, err, apperrors.CodeConflict)
	})

	t.Run("missing phone is rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), actor, role, CustomerCreateInput{PhoneNumber: "  "})
		assertCode(t, err, apperrors.CodeValidationFailed)
	})

	t.Run("invalid role note is rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), actor, role, CustomerCreateInput{
			PhoneNumber: "0911111111",
			RoleNote:    domain.RoleNote(9),
		})
		assertCode(t, err, apperrors.CodeValidationFailed)
	})
}

func TestCustomerUpdateStatus(t *testing.T) {
	t.Run("member closes a customer with attribution", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := newCustomerService(repo)
		actor, role := memberActor(9, 1)
		seeded := seedCustomer(t, repo, "0900000001", 1, domain.CustomerStatusInProgress)

		closed := domain.CustomerStatusClosed
		updated, err := svc.Update(context.Background(), actor, role, seeded.ID, CustomerUpdateInput{Status: &closed})
		require.NoError(t, err)
		assert.Equal(t, domain.CustomerStatusClosed, updated.Status)
		require.NotNil(t, updated.UpdatedBy)
		assert.Equal(t, int64(9), *updated.UpdatedBy)
	})

	t.Run("member cannot reopen a closed customer", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := newCustomerService(repo)
		actor, role := memberActor(9, 1)
		seeded := seedCustomer(t, repo, "0900000002", 1, domain.CustomerStatusClosed)

		inProgress := domain.CustomerStatusInProgress
		_, err := svc.Update(context.Background(), actor, role, seeded.ID, CustomerUpdateInput{Status: &inProgress})
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("admin reopen clears attribution", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := newCustomerService(repo)
		actor, role := adminActor(100)
		seeded := seedCustomer(t, repo, "0900000003", 1, domain.CustomerStatusClosed)

		inProgress := domain.CustomerStatusInProgress
		updated, err := svc.Update(context.Background(), actor, role, seeded.ID, CustomerUpdateInput{Status: &inProgress})
		require.NoError(t, err)
		assert.Equal(t, domain.CustomerStatusInProgress, updated.Status)
		assert.Nil(t, updated.UpdatedBy)
	})

	t.Run("closed to new is not offered", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := newCustomerService(repo)
		actor, role := adminActor(100)
		seeded := seedCustomer(t, repo, "0900000004", 1, domain.CustomerStatusClosed)

		fresh := domain.CustomerStatusNew
		_, err := svc.Update(context.Background(), actor, role, seeded.ID, CustomerUpdateInput{Status: &fresh})
		assertCode(t, err, apperrors.CodeValidationFailed)
	})

	t.Run("member cannot edit fields of a closed customer", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := newCustomerService(repo)
		actor, role := memberActor(9, 1)
		seeded := seedCustomer(t, repo, "0900000005", 1, domain.CustomerStatusClosed)

		note := "call back"
		_, err := svc.Update(context.Background(), actor, role, seeded.ID, CustomerUpdateInput{Note: &note})
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("edit outside own team is forbidden", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := newCustomerService(repo)
		actor, role := memberActor(9, 1)
		seeded := seedCustomer(t, repo, "0900000006", 2, domain.CustomerStatusNew)

		note := "claimed"
		_, err := svc.Update(context.Background(), actor, role, seeded.ID, CustomerUpdateInput{Note: &note})
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("missing customer is not found", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := newCustomerService(repo)
		actor, role := adminActor(100)

		_, err := svc.Update(context.Background(), actor, role, 999, CustomerUpdateInput{})
		assertCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("invalid requested status is rejected before role checks", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := newCustomerService(repo)
		actor, role := memberActor(9, 1)
		seeded := seedCustomer(t, repo, "0900000007", 1, domain.CustomerStatusClosed)

		bad := domain.CustomerStatus(9)
		_, err := svc.Update(context.Background(), actor, role, seeded.ID, CustomerUpdateInput{Status: &bad})
		assertCode(t, err, apperrors.CodeValidationFailed)
	})
}

func TestCustomerDelete(t *testing.T) {
	t.Run("member deletes an open customer", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := newCustomerService(repo)
		actor, role := memberActor(9, 1)
		seeded := seedCustomer(t, repo, "0900000010", 1, domain.CustomerStatusInProgress)

		require.NoError(t, svc.Delete(context.Background(), actor, role, seeded.ID))
	})

	t.Run("member cannot delete a closed customer", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := newCustomerService(repo)
		actor, role := memberActor(9, 1)
		seeded := seedCustomer(t, repo, "0900000011", 1, domain.CustomerStatusClosed)

		err := svc.Delete(context.Background(), actor, role, seeded.ID)
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("admin deletes a closed customer", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := newCustomerService(repo)
		actor, role := adminActor(100)
		seeded := seedCustomer(t, repo, "0900000012", 1, domain.CustomerStatusClosed)

		require.NoError(t, svc.Delete(context.Background(), actor, role, seeded.ID))
	})
}

func TestCustomerListScoping(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := newCustomerService(repo)
	seedCustomer(t, repo, "0900000020", 1, domain.CustomerStatusNew)
	seedCustomer(t, repo, "0900000021", 2, domain.CustomerStatusNew)

	_, adminRole := adminActor(100)
	rows, total, err := svc.List(context.Background(), adminRole, CustomerListInput{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(2), total)

	_, memberRole := memberActor(9, 1)
	rows, total, err = svc.List(context.Background(), memberRole, CustomerListInput{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(1), total)
}
