package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dulieucongty68/pmql-be/internal/domain"
)

// TeamRow is a listing row with creator/updater usernames joined in.
type TeamRow struct {
	domain.Team
	CreatedByUsername *string
	UpdatedByUsername *string
}

// TeamRepository manages persistence for teams.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	Rename(ctx context.Context, id int64, name string, updatedBy int64) error
	GetByID(ctx context.Context, id int64) (*domain.Team, error)
	GetByName(ctx context.Context, name string) (*domain.Team, error)
	List(ctx context.Context, scope *int64, limit, offset int) ([]TeamRow, error)
	Count(ctx context.Context, scope *int64) (int64, error)
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO teams (team_name, created_by, updated_by)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		team.Name,
		team.CreatedBy,
		team.UpdatedBy,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
}

func (r *teamRepository) Rename(ctx context.Context, id int64, name string, updatedBy int64) error {
	const query = `
        UPDATE teams SET team_name=$1, updated_by=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, name, updatedBy, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	const query = `
        SELECT id, team_name, created_by, updated_by, created_at, updated_at
        FROM teams WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *teamRepository) GetByName(ctx context.Context, name string) (*domain.Team, error) {
	const query = `
        SELECT id, team_name, created_by, updated_by, created_at, updated_at
        FROM teams WHERE team_name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *teamRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Team, error) {
	var team domain.Team
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&team.ID,
		&team.Name,
		&team.CreatedBy,
		&team.UpdatedBy,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) List(ctx context.Context, scope *int64, limit, offset int) ([]TeamRow, error) {
	clauses, args := teamScopeClauses(scope)

	pagination := ""
	if limit > 0 {
		if offset < 0 {
			offset = 0
		}
		pagination = fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	query := fmt.Sprintf(`
        SELECT t.id, t.team_name, t.created_by, t.updated_by, t.created_at, t.updated_at,
               u.username, u2.username
        FROM teams t
        LEFT JOIN users u ON t.created_by = u.id
        LEFT JOIN users u2 ON t.updated_by = u2.id
        WHERE %s
        ORDER BY t.created_at ASC, t.team_name ASC, t.id ASC%s`,
		strings.Join(clauses, " AND "), pagination)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TeamRow
	for rows.Next() {
		var row TeamRow
		if err := rows.Scan(
			&row.ID,
			&row.Name,
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

func (r *teamRepository) Count(ctx context.Context, scope *int64) (int64, error) {
	clauses, args := teamScopeClauses(scope)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM teams t WHERE %s`, strings.Join(clauses, " AND "))

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func teamScopeClauses(scope *int64) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if scope != nil {
		args = append(args, *scope)
		clauses = append(clauses, fmt.Sprintf("t.id=$%d", len(args)))
	}
	return clauses, args
}
