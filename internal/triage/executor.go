package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielolaszy/backlog/pkg/models"
)

// Outcome is the terminal state of one issue after its action was applied.
type Outcome string

const (
	OutcomeSkipped             Outcome = "skipped"
	OutcomeClosed              Outcome = "closed"
	OutcomeReminded            Outcome = "reminded"
	OutcomeMarkedForDiscussion Outcome = "marked-for-discussion"
	OutcomeMigrated            Outcome = "migrated-to-discussion"
	OutcomePartiallyApplied    Outcome = "partially-applied"
	OutcomeFailed              Outcome = "failed"
)

// Result records what happened to one issue.
type Result struct {
	Issue   int
	Action  Action
	Outcome Outcome

	// DryRun is set when the outcome was simulated
	DryRun bool

	// DiscussionURL is set after a live migration
	DiscussionURL string

	Err error
}

// Executor applies actions against the backend. In dry-run mode every
// mutating call is replaced by a log line while the outcome is reported as
// if the call had succeeded.
type Executor struct {
	backend Backend
	cfg     Config
	log     *slog.Logger
	history *HistoryLookup

	categories       []models.DiscussionCategory
	categoriesLoaded bool
}

// NewExecutor creates an executor. A nil logger falls back to slog.Default.
func NewExecutor(backend Backend, cfg Config, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{backend: backend, cfg: cfg, log: log, history: NewHistoryLookup(backend, cfg)}
}

// Apply carries out action for issue. Mutations on one issue run strictly in
// order and the first failing step ends the issue's processing.
func (e *Executor) Apply(ctx context.Context, issue models.Issue, action Action) Result {
	res := Result{Issue: issue.Number, Action: action, DryRun: e.cfg.DryRun}

	switch action.Kind {
	case ActionSkip:
		res.Outcome = OutcomeSkipped
	case ActionClose:
		res.Outcome, res.Err = e.close(ctx, issue)
	case ActionRemind:
		res.Outcome, res.Err = e.remind(ctx, issue, action.AgeDays)
	case ActionMarkForDiscussion:
		res.Outcome, res.Err = e.markForDiscussion(ctx, issue)
	case ActionMigrate:
		res.DiscussionURL, res.Outcome, res.Err = e.migrate(ctx, issue)
	default:
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("unknown action %s", action)
	}

	return res
}

func (e *Executor) close(ctx context.Context, issue models.Issue) (Outcome, error) {
	if e.cfg.DryRun {
		e.log.Info("[DRY-RUN] would close issue", "issue", issue.Number)
		return OutcomeClosed, nil
	}

	if err := e.backend.CreateComment(ctx, issue.Number, ClosureComment); err != nil {
		return OutcomeFailed, &MutationError{Op: "closure comment", Issue: issue.Number, Err: err}
	}
	if err := e.backend.SetIssueState(ctx, issue.Number, models.StateClosed); err != nil {
		return OutcomePartiallyApplied, &MutationError{Op: "close", Issue: issue.Number, Err: err}
	}

	e.log.Info("closed issue", "issue", issue.Number)
	return OutcomeClosed, nil
}

func (e *Executor) remind(ctx context.Context, issue models.Issue, ageDays int) (Outcome, error) {
	if e.cfg.DryRun {
		e.log.Info("[DRY-RUN] would post reminder",
			"issue", issue.Number,
			"assignees", issue.Assignees,
			"age_days", ageDays)
		return OutcomeReminded, nil
	}

	awaiting := ""
	if len(e.cfg.CloseLabels) > 0 {
		awaiting = e.cfg.CloseLabels[0]
	}
	body := ReminderComment(issue.Assignees, ageDays, awaiting)
	if err := e.backend.CreateComment(ctx, issue.Number, body); err != nil {
		return OutcomeFailed, &MutationError{Op: "reminder comment", Issue: issue.Number, Err: err}
	}

	e.log.Info("posted reminder", "issue", issue.Number, "age_days", ageDays)
	return OutcomeReminded, nil
}

func (e *Executor) markForDiscussion(ctx context.Context, issue models.Issue) (Outcome, error) {
	if issue.HasLabel(e.cfg.MoveLabel) {
		e.log.Debug("issue already marked for discussion", "issue", issue.Number, "label", e.cfg.MoveLabel)
		return OutcomeMarkedForDiscussion, nil
	}

	if e.cfg.DryRun {
		e.log.Info("[DRY-RUN] would add label", "issue", issue.Number, "label", e.cfg.MoveLabel)
		return OutcomeMarkedForDiscussion, nil
	}

	if err := e.backend.AddLabels(ctx, issue.Number, e.cfg.MoveLabel); err != nil {
		return OutcomeFailed, &MutationError{Op: "add label", Issue: issue.Number, Err: err}
	}

	e.log.Info("marked issue for discussion", "issue", issue.Number, "label", e.cfg.MoveLabel)
	return OutcomeMarkedForDiscussion, nil
}

func (e *Executor) migrate(ctx context.Context, issue models.Issue) (string, Outcome, error) {
	// A cross-link from an earlier run means only the close step is missing.
	previous, migrated, err := e.history.FindMigrationComment(ctx, issue.Number)
	if err != nil {
		return "", OutcomeFailed, err
	}
	if migrated {
		return e.closeMigrated(ctx, issue, migratedDiscussionURL(previous.Body))
	}

	category, err := e.resolveCategory(ctx)
	if errors.Is(err, ErrCategoryNotFound) {
		return "", OutcomeSkipped, err
	}
	if err != nil {
		return "", OutcomeFailed, err
	}

	if e.cfg.DryRun {
		e.log.Info("[DRY-RUN] would migrate issue to discussion",
			"issue", issue.Number,
			"category", category.Name)
		return "", OutcomeMigrated, nil
	}

	discussion, err := e.backend.CreateDiscussion(ctx, issue.Title, DiscussionBody(issue), category.ID)
	if err != nil {
		return "", OutcomeFailed, &MutationError{Op: "create discussion", Issue: issue.Number, Err: err}
	}
	if err := e.backend.CreateComment(ctx, issue.Number, MigrationComment(discussion.URL)); err != nil {
		return discussion.URL, OutcomePartiallyApplied, &MutationError{Op: "migration comment", Issue: issue.Number, Err: err}
	}
	if err := e.backend.SetIssueState(ctx, issue.Number, models.StateClosed); err != nil {
		return discussion.URL, OutcomePartiallyApplied, &MutationError{Op: "close", Issue: issue.Number, Err: err}
	}

	e.log.Info("migrated issue to discussion", "issue", issue.Number, "discussion_url", discussion.URL)
	return discussion.URL, OutcomeMigrated, nil
}

func (e *Executor) closeMigrated(ctx context.Context, issue models.Issue, discussionURL string) (string, Outcome, error) {
	if e.cfg.DryRun {
		e.log.Info("[DRY-RUN] would close already migrated issue",
			"issue", issue.Number,
			"discussion_url", discussionURL)
		return discussionURL, OutcomeMigrated, nil
	}

	if err := e.backend.SetIssueState(ctx, issue.Number, models.StateClosed); err != nil {
		return discussionURL, OutcomePartiallyApplied, &MutationError{Op: "close", Issue: issue.Number, Err: err}
	}

	e.log.Info("closed already migrated issue", "issue", issue.Number, "discussion_url", discussionURL)
	return discussionURL, OutcomeMigrated, nil
}

// resolveCategory finds the configured category by case-insensitive name.
// Categories are listed once per executor.
func (e *Executor) resolveCategory(ctx context.Context) (models.DiscussionCategory, error) {
	if !e.categoriesLoaded {
		categories, err := e.backend.ListDiscussionCategories(ctx)
		if err != nil {
			return models.DiscussionCategory{}, &FetchError{Resource: "discussion categories", Err: err}
		}
		e.categories = categories
		e.categoriesLoaded = true
	}

	for _, category := range e.categories {
		if strings.EqualFold(category.Name, e.cfg.DiscussionCategory) {
			return category, nil
		}
	}
	return models.DiscussionCategory{}, fmt.Errorf("%w: %q", ErrCategoryNotFound, e.cfg.DiscussionCategory)
}
