package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dulieucongty68/pmql-be/internal/domain"
)

// ErrStatusChanged reports that a conditional update lost the race: the row's
// status moved between the caller's read and the write.
var ErrStatusChanged = errors.New("customer status changed concurrently")

// CustomerPatch is a typed partial update for a customer row. Only non-nil
// fields are written. UpdatedBy/UpdatedAt come from the status machine
// verdict and are always applied; a nil UpdatedBy clears the attribution.
type CustomerPatch struct {
	FullName    *string
	YearOfBirth *int
	PhoneNumber *string
	Note        *string
	RoleNote    *domain.RoleNote
	TeamID      *int64
	Status      *domain.CustomerStatus
	UpdatedBy   *int64
	UpdatedAt   time.Time
}

// CustomerFilter captures listing parameters. TeamScope nil means
// unrestricted visibility.
type CustomerFilter struct {
	TeamScope *int64
	Search    *string
	Limit     int
	Offset    int
}

// CustomerRow is a listing row with audit labels and team name joined in.
type CustomerRow struct {
	domain.Customer
	CreatedByLabel string
	UpdatedByLabel string
	TeamName       *string
}

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	ApplyPatch(ctx context.Context, id int64, expected domain.CustomerStatus, patch CustomerPatch) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter CustomerFilter) ([]CustomerRow, error)
	Count(ctx context.Context, filter CustomerFilter) (int64, error)
	ExportAll(ctx context.Context) ([]CustomerRow, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerColumns = `id, full_name, year_of_birth, phone_number, note, role_note, status, team_id, created_by, updated_by, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (full_name, year_of_birth, phone_number, note, role_note, status, team_id, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		customer.FullName,
		customer.YearOfBirth,
		customer.PhoneNumber,
		customer.Note,
		customer.RoleNote,
		customer.Status,
		customer.TeamID,
		customer.CreatedBy,
		customer.UpdatedBy,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone_number=$1`
	return r.fetchSingle(ctx, query, phone)
}

func (r *customerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&customer.ID,
		&customer.FullName,
		&customer.YearOfBirth,
		&customer.PhoneNumber,
		&customer.Note,
		&customer.RoleNote,
		&customer.Status,
		&customer.TeamID,
		&customer.CreatedBy,
		&customer.UpdatedBy,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}

// ApplyPatch writes the patch conditionally on the status the caller read, so
// the decision and the write share one consistency scope. A mismatch leaves
// the row untouched and reports ErrStatusChanged.
func (r *customerRepository) ApplyPatch(ctx context.Context, id int64, expected domain.CustomerStatus, patch CustomerPatch) error {
	clauses := []string{}
	args := []any{}

	appendClause := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.FullName != nil {
		appendClause("full_name", *patch.FullName)
	}
	if patch.YearOfBirth != nil {
		appendClause("year_of_birth", *patch.YearOfBirth)
	}
	if patch.PhoneNumber != nil {
		appendClause("phone_number", *patch.PhoneNumber)
	}
	if patch.Note != nil {
		appendClause("note", *patch.Note)
	}
	if patch.RoleNote != nil {
		appendClause("role_note", *patch.RoleNote)
	}
	if patch.TeamID != nil {
		appendClause("team_id", *patch.TeamID)
	}
	if patch.Status != nil {
		appendClause("status", *patch.Status)
	}
	appendClause("updated_by", patch.UpdatedBy)
	appendClause("updated_at", patch.UpdatedAt)

	args = append(args, id)
	idPlaceholder := len(args)
	args = append(args, expected)

	query := fmt.Sprintf("UPDATE customers SET %s WHERE id=$%d AND status=$%d",
		strings.Join(clauses, ", "), idPlaceholder, len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrStatusChanged
	}
	return pgx.ErrNoRows
}

func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const customerRowSelect = `
        SELECT c.id, c.full_name, c.year_of_birth, c.phone_number, c.note, c.role_note, c.status,
               c.team_id, c.created_by, c.updated_by, c.created_at, c.updated_at,
               CASE WHEN u.is_admin THEN 'Quản lý' WHEN u.is_team_lead THEN 'Tổ trưởng' ELSE 'Nhân viên' END,
               CASE WHEN u2.is_admin THEN 'Quản lý' WHEN u2.is_team_lead THEN 'Tổ trưởng' ELSE 'Nhân viên' END,
               t.team_name
        FROM customers c
        LEFT JOIN users u ON c.created_by = u.id
        LEFT JOIN users u2 ON c.updated_by = u2.id
        LEFT JOIN teams t ON t.id = c.team_id`

func (r *customerRepository) List(ctx context.Context, filter CustomerFilter) ([]CustomerRow, error) {
	clauses, args := customerFilterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY c.created_at DESC LIMIT %d OFFSET %d`,
		customerRowSelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomerRows(rows)
}

func (r *customerRepository) Count(ctx context.Context, filter CustomerFilter) (int64, error) {
	clauses, args := customerFilterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM customers c WHERE %s`, strings.Join(clauses, " AND "))

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *customerRepository) ExportAll(ctx context.Context) ([]CustomerRow, error) {
	query := customerRowSelect + ` ORDER BY c.created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomerRows(rows)
}

func customerFilterClauses(filter CustomerFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.TeamScope != nil {
		args = append(args, *filter.TeamScope)
		clauses = append(clauses, fmt.Sprintf("c.team_id=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.Search)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(c.full_name ILIKE %s OR c.phone_number ILIKE %s)", placeholder, placeholder))
	}
	return clauses, args
}

func scanCustomerRows(rows pgx.Rows) ([]CustomerRow, error) {
	var result []CustomerRow
	for rows.Next() {
		var row CustomerRow
		if err := rows.Scan(
			&row.ID,
			&row.FullName,
			&row.YearOfBirth,
			&row.PhoneNumber,
			&row.Note,
			&row.RoleNote,
			&row.Status,
			&row.TeamID,
			&row.CreatedBy,
			&row.UpdatedBy,
			&row.CreatedAt,
			&row.UpdatedAt,
			&row.CreatedByLabel,
			&row.UpdatedByLabel,
			&row.TeamName,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
