package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dulieucongty68/pmql-be/internal/domain"
	"github.com/dulieucongty68/pmql-be/internal/persistence"
	"github.com/dulieucongty68/pmql-be/internal/repository"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

// StatsService serves monthly call statistics with a Redis read-through
// cache. A cache miss or an unreachable Redis simply falls back to the
// database query.
type StatsService struct {
	stats  repository.StatsRepository
	redis  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewStatsService constructs the service.
func NewStatsService(stats repository.StatsRepository, redis *persistence.Redis, ttl time.Duration, logger *zap.Logger) *StatsService {
	return &StatsService{
		stats:  stats,
		redis:  redis,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// CallStats returns the current month's call counts grouped by team and
// role note, optionally filtered to one role note category.
func (s *StatsService) CallStats(ctx context.Context, roleNote *domain.RoleNote) ([]repository.CallStat, error) {
	if roleNote != nil && !roleNote.Valid() {
		return nil, apperrors.NewValidationError("invalid role_note", nil)
	}

	month := s.now()
	key := s.cacheKey(month, roleNote)

	if cached, ok := s.readCache(ctx, key); ok {
		return cached, nil
	}

	stats, err := s.stats.CallCountsForMonth(ctx, month, roleNote)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.writeCache(ctx, key, stats)
	return stats, nil
}

// WarmCache refreshes the unfiltered stats entry; the cron worker calls this
// on a schedule so the dashboard query usually hits the cache.
func (s *StatsService) WarmCache(ctx context.Context) error {
	month := s.now()
	stats, err := s.stats.CallCountsForMonth(ctx, month, nil)
	if err != nil {
		return err
	}
	s.writeCache(ctx, s.cacheKey(month, nil), stats)
	return nil
}

func (s *StatsService) cacheKey(month time.Time, roleNote *domain.RoleNote) string {
	suffix := "all"
	if roleNote != nil {
		suffix = fmt.Sprintf("rn%d", *roleNote)
	}
	return fmt.Sprintf("stats:calls:%s:%s", month.Format("2006-01"), suffix)
}

func (s *StatsService) readCache(ctx context.Context, key string) ([]repository.CallStat, bool) {
	if s.redis == nil || s.redis.Client == nil {
		return nil, false
	}
	raw, err := s.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var stats []repository.CallStat
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("corrupt stats cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return stats, true
}

func (s *StatsService) writeCache(ctx context.Context, key string, stats []repository.CallStat) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.redis.Client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Debug("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}
