package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dulieucongty68/pmql-be/internal/domain"
)

// CallStat is one aggregated row of monthly call statistics.
type CallStat struct {
	TeamID    int64           `json:"team_id"`
	TeamName  string          `json:"team_name"`
	RoleNote  domain.RoleNote `json:"role_note"`
	CallCount int64           `json:"call_count"`
}

// StatsRepository aggregates call counts from customer records.
type StatsRepository interface {
	CallCountsForMonth(ctx context.Context, month time.Time, roleNote *domain.RoleNote) ([]CallStat, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository constructs repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) CallCountsForMonth(ctx context.Context, month time.Time, roleNote *domain.RoleNote) ([]CallStat, error) {
	args := []any{domain.CustomerStatusClosed, month}
	filter := ""
	if roleNote != nil {
		args = append(args, *roleNote)
		filter = fmt.Sprintf(" AND c.role_note=$%d", len(args))
	}

	query := fmt.Sprintf(`
        SELECT c.team_id, t.team_name, c.role_note, COUNT(1) AS call_count
        FROM customers c
        INNER JOIN teams t ON c.team_id = t.id
        WHERE c.status = $1
          AND DATE_TRUNC('month', c.updated_at) = DATE_TRUNC('month', $2::timestamptz)%s
        GROUP BY c.team_id, c.role_note, t.team_name
        ORDER BY call_count DESC`, filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CallStat
	for rows.Next() {
		var stat CallStat
		if err := rows.Scan(&stat.TeamID, &stat.TeamName, &stat.RoleNote, &stat.CallCount); err != nil {
			return nil, err
		}
		result = append(result, stat)
	}
	return result, rows.Err()
}
