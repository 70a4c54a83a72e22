package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dulieucongty68/pmql-be/internal/service"
)

// StatsWarmer periodically refreshes the call statistics cache so dashboard
// reads rarely hit the database cold.
type StatsWarmer struct {
	stats    *service.StatsService
	schedule string
	logger   *zap.Logger
	cron     *cron.Cron
}

// NewStatsWarmer constructs the warmer with a cron schedule expression,
// e.g. "@every 5m".
func NewStatsWarmer(stats *service.StatsService, schedule string, logger *zap.Logger) *StatsWarmer {
	return &StatsWarmer{
		stats:    stats,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start registers the cron entry and begins the scheduler. The cache is
// warmed once immediately so the first dashboard request after boot is warm.
func (w *StatsWarmer) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.run); err != nil {
		return err
	}
	go w.run()
	w.cron.Start()
	w.logger.Info("stats cache warmer started", zap.String("schedule", w.schedule))
	return nil
}

// Stop halts the scheduler and waits for an in-flight run to finish.
func (w *StatsWarmer) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

func (w *StatsWarmer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := w.stats.WarmCache(ctx); err != nil {
		w.logger.Warn("stats cache warm failed", zap.Error(err))
	}
}
