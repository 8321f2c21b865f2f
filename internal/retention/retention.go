// Package retention periodically deletes old quote requests.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Defaults.
const (
	DefaultRetention = 180 * 24 * time.Hour
	DefaultSchedule  = "@daily"
)

// Purger deletes quotes older than a cutoff.
type Purger interface {
	DeleteQuotesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Config configures the purge job.
type Config struct {
	// Retention is how long quotes are kept. Zero or negative disables purging.
	Retention time.Duration
	// Schedule is a standard cron expression or descriptor such as "@daily".
	Schedule string
}

// Job runs the purge on a cron schedule.
type Job struct {
	store  Purger
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// New validates the schedule and returns a Job.
func New(store Purger, cfg Config, logger *slog.Logger) (*Job, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", cfg.Schedule, err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Job{store: store, cfg: cfg, logger: logger, now: time.Now}, nil
}

// Enabled reports whether the job deletes anything.
func (j *Job) Enabled() bool {
	return j.cfg.Retention > 0
}

// PurgeOnce deletes quotes older than the retention window.
func (j *Job) PurgeOnce(ctx context.Context) (int64, error) {
	if !j.Enabled() {
		return 0, nil
	}

	cutoff := j.now().Add(-j.cfg.Retention)
	n, err := j.store.DeleteQuotesBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge quotes: %w", err)
	}
	j.logger.InfoContext(ctx, "purged old quotes",
		slog.Int64("deleted", n),
		slog.Time("cutoff", cutoff))
	return n, nil
}

// Run schedules PurgeOnce and blocks until ctx is cancelled.
// A running purge is allowed to finish before Run returns.
func (j *Job) Run(ctx context.Context) error {
	if !j.Enabled() {
		j.logger.DebugContext(ctx, "quote retention disabled")
		<-ctx.Done()
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(j.cfg.Schedule, func() {
		if _, err := j.PurgeOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "quote purge failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule purge: %w", err)
	}

	j.logger.InfoContext(ctx, "quote retention scheduled",
		slog.String("schedule", j.cfg.Schedule),
		slog.Duration("retention", j.cfg.Retention))

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
