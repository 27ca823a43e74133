package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielolaszy/backlog/internal/logging"
	"github.com/google/uuid"
)

// Runner performs one triage pass over the open issues of a repository.
type Runner struct {
	backend Backend
	cfg     Config
	now     func() time.Time
}

// Option customises a Runner.
type Option func(*Runner)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner validates cfg and creates a runner.
func NewRunner(backend Backend, cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{backend: backend, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run fetches the open issues and processes them one at a time in fetch
// order. It fails only when the issue list cannot be fetched; per-issue
// failures are logged and counted.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	log := logging.With("run_id", runID)
	report := &Report{RunID: runID, DryRun: r.cfg.DryRun}

	log.Info("starting backlog cleanup",
		"dry_run", r.cfg.DryRun,
		"threshold_days", r.cfg.ThresholdDays,
		"reminder_cooldown", r.cfg.ReminderCooldown,
		"migration_mode", r.cfg.MigrationMode,
		"marker_strategy", r.cfg.MarkerStrategy)

	issues, err := FetchOpenIssues(ctx, r.backend, r.cfg.PageSize)
	if err != nil {
		log.Error("failed to fetch open issues", "error", err)
		return nil, fmt.Errorf("backlog cleanup aborted: %w", err)
	}
	log.Info("fetched open issues", "count", len(issues))

	now := r.now()
	policy := NewPolicy(r.cfg, log)
	history := NewHistoryLookup(r.backend, r.cfg)
	executor := NewExecutor(r.backend, r.cfg, log)

	for _, issue := range issues {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		action := policy.Classify(ctx, issue, now, history)
		log.Debug("classified issue",
			"issue", issue.Number,
			"action", action.String(),
			"age_days", action.AgeDays)

		res := executor.Apply(ctx, issue, action)
		switch {
		case res.Outcome == OutcomePartiallyApplied:
			log.Error("action partially applied",
				"issue", issue.Number,
				"action", action.String(),
				"error", res.Err)
		case errors.Is(res.Err, ErrCategoryNotFound):
			log.Warn("migration skipped, category missing",
				"issue", issue.Number,
				"category", r.cfg.DiscussionCategory)
		case res.Err != nil:
			log.Error("action failed",
				"issue", issue.Number,
				"action", action.String(),
				"error", res.Err)
		}

		report.Record(res)
	}

	log.Info("backlog cleanup complete",
		"processed", report.Processed,
		"closed", report.Closed,
		"reminded", report.Reminded,
		"migrated", report.Migrated,
		"skipped", report.Skipped,
		"failed", report.Failed)

	return report, nil
}
