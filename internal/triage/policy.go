package triage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielolaszy/backlog/pkg/models"
)

// ActionKind is the decision taken for one issue.
type ActionKind int

const (
	ActionSkip ActionKind = iota
	ActionClose
	ActionRemind
	ActionMarkForDiscussion
	ActionMigrate
)

func (k ActionKind) String() string {
	switch k {
	case ActionSkip:
		return "skip"
	case ActionClose:
		return "close"
	case ActionRemind:
		return "remind"
	case ActionMarkForDiscussion:
		return "mark-for-discussion"
	case ActionMigrate:
		return "migrate"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// SkipReason explains why an issue was left alone.
type SkipReason string

const (
	ReasonExempt         SkipReason = "exempt"
	ReasonActive         SkipReason = "active"
	ReasonRecentReminder SkipReason = "recent-reminder"
)

// Action is the classification of one issue.
type Action struct {
	Kind ActionKind

	// Reason is set for ActionSkip only
	Reason SkipReason

	// AgeDays is the whole number of days since the issue was last updated
	AgeDays int
}

func (a Action) String() string {
	if a.Kind == ActionSkip {
		return fmt.Sprintf("skip(%s)", a.Reason)
	}
	return a.Kind.String()
}

// AgeDays returns the number of whole days between updatedAt and now.
// An issue updated 89 days and 23 hours ago is 89 days old.
func AgeDays(updatedAt, now time.Time) int {
	return int(now.Sub(updatedAt) / (24 * time.Hour))
}

// Policy classifies issues according to a fixed precedence order.
type Policy struct {
	cfg Config
	log *slog.Logger
}

// NewPolicy creates a policy. A nil logger falls back to slog.Default.
func NewPolicy(cfg Config, log *slog.Logger) *Policy {
	if log == nil {
		log = slog.Default()
	}
	return &Policy{cfg: cfg, log: log}
}

// Classify maps an issue to exactly one action. Rules, first match wins:
//
//  1. exempt label             -> skip(exempt)
//  2. discussion label         -> mark-for-discussion or migrate
//  3. younger than threshold   -> skip(active)
//  4. close label or unassigned -> close
//  5. recent bot reminder      -> skip(recent-reminder), otherwise remind
//
// history is consulted only for rule 5. A failed history lookup counts as
// no history, so the issue is reminded.
func (p *Policy) Classify(ctx context.Context, issue models.Issue, now time.Time, history ReminderHistory) Action {
	age := AgeDays(issue.UpdatedAt, now)

	if issue.HasAnyLabel(p.cfg.ExemptLabels) {
		return Action{Kind: ActionSkip, Reason: ReasonExempt, AgeDays: age}
	}

	if p.cfg.DiscussionLabel != "" && issue.HasLabel(p.cfg.DiscussionLabel) {
		if p.cfg.MigrationMode == MigrationFull {
			return Action{Kind: ActionMigrate, AgeDays: age}
		}
		return Action{Kind: ActionMarkForDiscussion, AgeDays: age}
	}

	if age < p.cfg.ThresholdDays {
		return Action{Kind: ActionSkip, Reason: ReasonActive, AgeDays: age}
	}

	if issue.HasAnyLabel(p.cfg.CloseLabels) || !issue.IsAssigned() {
		return Action{Kind: ActionClose, AgeDays: age}
	}

	recent, err := history.HasRecentAutomatedComment(ctx, issue.Number, now)
	if err != nil {
		p.log.Warn("comment history unavailable, assuming no prior reminder",
			"issue", issue.Number,
			"error", err)
		recent = false
	}
	if recent {
		return Action{Kind: ActionSkip, Reason: ReasonRecentReminder, AgeDays: age}
	}
	return Action{Kind: ActionRemind, AgeDays: age}
}
