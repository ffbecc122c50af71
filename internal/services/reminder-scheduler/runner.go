package reminder_scheduler

import (
	"context"
	"time"

	config "github.com/NordCoder/Upkeep/internal/config/reminder-scheduler"
	"github.com/NordCoder/Upkeep/internal/obs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	mRaised = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_scheduler_reminders_total", Help: "Maintenance reminders raised.",
	})
	mErr = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_scheduler_errors_total", Help: "Failed scheduler ticks.",
	})
	mLoopDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "reminder_scheduler_tick_duration_seconds", Help: "Scheduler tick duration.",
		Buckets: prometheus.DefBuckets,
	})
)

type Ticker interface {
	Tick(ctx context.Context, limit int) (int, error)
}

type Runner struct {
	log *zap.Logger
	uc  Ticker
	cfg config.Sched
}

func New(log *zap.Logger, uc Ticker, cfg config.Sched) *Runner {
	return &Runner{log: log.With(zap.String("component", "reminder-scheduler")), uc: uc, cfg: cfg}
}

func (r *Runner) tick(ctx context.Context) {
	start := time.Now()
	defer func() { mLoopDur.Observe(time.Since(start).Seconds()) }()

	raised, err := r.uc.Tick(ctx, r.cfg.BatchSize)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		mErr.Inc()
		obs.WithTrace(ctx, r.log).Warn("tick error", zap.Error(err))
		return
	}
	if raised > 0 {
		mRaised.Add(float64(raised))
		r.log.Info("reminders raised", zap.Int("count", raised))
	}
}

// Run ticks immediately and then every cfg.Tick until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Tick)
	defer ticker.Stop()

	r.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}
