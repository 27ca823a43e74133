package triage

import (
	"context"
	"strings"
	"time"

	"github.com/danielolaszy/backlog/pkg/models"
)

// ReminderHistory answers whether an issue already received a reminder recently.
type ReminderHistory interface {
	HasRecentAutomatedComment(ctx context.Context, issue int, now time.Time) (bool, error)
}

// HistoryLookup scans an issue's comments for a reminder posted by the bot
// within the cooldown window. Comments are fetched on demand and never cached.
type HistoryLookup struct {
	backend  Backend
	strategy MarkerStrategy
	botLogin string
	cooldown time.Duration
	pageSize int
}

// NewHistoryLookup creates a lookup using the marker strategy, bot login and
// cooldown from cfg.
func NewHistoryLookup(backend Backend, cfg Config) *HistoryLookup {
	return &HistoryLookup{
		backend:  backend,
		strategy: cfg.MarkerStrategy,
		botLogin: cfg.BotLogin,
		cooldown: cfg.ReminderCooldown,
		pageSize: cfg.PageSize,
	}
}

// HasRecentAutomatedComment returns true at the first bot-authored comment that
// carries the reminder marker and is no older than the cooldown. Comments from
// anyone else never count, whatever their text.
func (h *HistoryLookup) HasRecentAutomatedComment(ctx context.Context, issue int, now time.Time) (bool, error) {
	_, found, err := h.findBotComment(ctx, issue, func(c models.Comment) bool {
		return h.isRecentReminder(c, now)
	})
	return found, err
}

// FindMigrationComment returns the bot's cross-link comment left by an earlier
// migration of the issue, if any. Its age does not matter.
func (h *HistoryLookup) FindMigrationComment(ctx context.Context, issue int) (models.Comment, bool, error) {
	return h.findBotComment(ctx, issue, func(c models.Comment) bool {
		return h.isBot(c) && strings.Contains(c.Body, MigrationMarker)
	})
}

func (h *HistoryLookup) findBotComment(ctx context.Context, issue int, match func(models.Comment) bool) (models.Comment, bool, error) {
	fetch := func(ctx context.Context, page, perPage int) (models.Page[models.Comment], error) {
		return h.backend.ListComments(ctx, issue, page, perPage)
	}

	for comment, err := range Paginate(ctx, h.pageSize, fetch) {
		if err != nil {
			return models.Comment{}, false, &FetchError{Resource: "comments", Issue: issue, Err: err}
		}
		if match(comment) {
			return comment, true, nil
		}
	}
	return models.Comment{}, false, nil
}

func (h *HistoryLookup) isBot(c models.Comment) bool {
	return strings.EqualFold(c.Author, h.botLogin)
}

func (h *HistoryLookup) isRecentReminder(c models.Comment, now time.Time) bool {
	if !h.isBot(c) {
		return false
	}
	if !h.strategy.Matches(c.Body) {
		return false
	}
	return now.Sub(c.CreatedAt) <= h.cooldown
}
