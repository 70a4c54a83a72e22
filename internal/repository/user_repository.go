package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dulieucongty68/pmql-be/internal/domain"
)

// UserPatch is a typed partial update for an employee row. Only non-nil
// fields are written; the column list is fixed here so no caller-supplied
// names ever reach the SQL text.
type UserPatch struct {
	Name         *string
	Username     *string
	PasswordHash *string
	TeamID       *int64
	Status       *domain.UserStatus
	IsFirstLogin *bool
	UpdatedBy    int64
}

// EmployeeFilter captures employee listing parameters.
type EmployeeFilter struct {
	TeamID        *int64
	ExcludeAdmins bool
	Limit         int
	Offset        int
}

// EmployeeRow is a listing row with creator/updater usernames joined in.
type EmployeeRow struct {
	domain.User
	CreatedByUsername *string
	UpdatedByUsername *string
}

// UserRepository defines persistence access for employees.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ApplyPatch(ctx context.Context, id int64, patch UserPatch) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string, firstLogin bool) error
	List(ctx context.Context, filter EmployeeFilter) ([]EmployeeRow, error)
	Count(ctx context.Context, filter EmployeeFilter) (int64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, username, name, password_hash, is_admin, is_team_lead, is_first_login, status, team_id, created_by, updated_by, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, name, password_hash, is_admin, is_team_lead, is_first_login, status, team_id, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Username,
		user.Name,
		user.PasswordHash,
		user.IsAdmin,
		user.IsTeamLead,
		user.IsFirstLogin,
		user.Status,
		user.TeamID,
		user.CreatedBy,
		user.UpdatedBy,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return r.fetchSingle(ctx, query, username)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.IsTeamLead,
		&user.IsFirstLogin,
		&user.Status,
		&user.TeamID,
		&user.CreatedBy,
		&user.UpdatedBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ApplyPatch(ctx context.Context, id int64, patch UserPatch) error {
	clauses := []string{}
	args := []any{}

	appendClause := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Name != nil {
		appendClause("name", *patch.Name)
	}
	if patch.Username != nil {
		appendClause("username", *patch.Username)
	}
	if patch.PasswordHash != nil {
		appendClause("password_hash", *patch.PasswordHash)
	}
	if patch.TeamID != nil {
		appendClause("team_id", *patch.TeamID)
	}
	if patch.Status != nil {
		appendClause("status", *patch.Status)
	}
	if patch.IsFirstLogin != nil {
		appendClause("is_first_login", *patch.IsFirstLogin)
	}
	if len(clauses) == 0 {
		return nil
	}
	appendClause("updated_by", patch.UpdatedBy)

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s, updated_at=NOW() WHERE id=$%d",
		strings.Join(clauses, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, firstLogin bool) error {
	const query = `UPDATE users SET password_hash=$1, is_first_login=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, firstLogin, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter EmployeeFilter) ([]EmployeeRow, error) {
	clauses, args := employeeFilterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT u.id, u.username, u.name, u.password_hash, u.is_admin, u.is_team_lead, u.is_first_login,
               u.status, u.team_id, u.created_by, u.updated_by, u.created_at, u.updated_at,
               c.username, u2.username
        FROM users u
        LEFT JOIN users c ON u.created_by = c.id
        LEFT JOIN users u2 ON u.updated_by = u2.id
        WHERE %s
        ORDER BY u.is_team_lead DESC, u.team_id ASC, u.id ASC
        LIMIT %d OFFSET %d`, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []EmployeeRow
	for rows.Next() {
		var row EmployeeRow
		if err := rows.Scan(
			&row.ID,
			&row.Username,
			&row.Name,
			&row.PasswordHash,
			&row.IsAdmin,
			&row.IsTeamLead,
			&row.IsFirstLogin,
			&row.Status,
			&row.TeamID,
			&row.CreatedBy,
			&row.UpdatedBy,
			&row.CreatedAt,
			&row.UpdatedAt,
			&row.CreatedByUsername,
			&row.UpdatedByUsername,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *userRepository) Count(ctx context.Context, filter EmployeeFilter) (int64, error) {
	clauses, args := employeeFilterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM users u WHERE %s`, strings.Join(clauses, " AND "))

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func employeeFilterClauses(filter EmployeeFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ExcludeAdmins {
		clauses = append(clauses, "u.is_admin = FALSE")
	}
	if filter.TeamID != nil {
		args = append(args, *filter.TeamID)
		clauses = append(clauses, fmt.Sprintf("u.team_id=$%d", len(args)))
	}
	return clauses, args
}
