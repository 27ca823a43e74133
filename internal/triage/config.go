package triage

import (
	"fmt"
	"strings"
	"time"
)

// MigrationMode selects what happens to issues carrying the discussion label.
type MigrationMode string

const (
	// MigrationMarkOnly adds the move label and leaves the issue open.
	MigrationMarkOnly MigrationMode = "mark-only"
	// MigrationFull creates a discussion, cross-links it and closes the issue.
	MigrationFull MigrationMode = "full-migrate"
)

// MarkerStrategy selects how earlier automated reminders are recognised.
type MarkerStrategy string

const (
	// MarkerHiddenTag matches the invisible HTML comment embedded in every reminder.
	MarkerHiddenTag MarkerStrategy = "hidden-tag"
	// MarkerTextSubstring matches the visible reminder header. Kept for
	// repositories whose older reminders predate the hidden tag.
	MarkerTextSubstring MarkerStrategy = "text-substring"
)

// Matches reports whether a comment body carries the reminder marker.
func (s MarkerStrategy) Matches(body string) bool {
	if s == MarkerTextSubstring {
		return strings.Contains(body, ReminderHeader)
	}
	return strings.Contains(body, ReminderMarker)
}

// Config is the immutable policy configuration for one run.
type Config struct {
	// ThresholdDays is the inactivity age at which an issue is closed or reminded
	ThresholdDays int

	// ReminderCooldown is the minimum spacing between two reminders on one issue
	ReminderCooldown time.Duration

	// ExemptLabels block both closure and reminders
	ExemptLabels []string

	// CloseLabels force closure of inactive issues regardless of assignment
	CloseLabels []string

	// DiscussionLabel routes an issue to the discussion action regardless of age
	DiscussionLabel string

	// MoveLabel is the sentinel label added in mark-only mode
	MoveLabel string

	// DiscussionCategory is the target category name in full-migrate mode
	DiscussionCategory string

	MigrationMode  MigrationMode
	MarkerStrategy MarkerStrategy

	// BotLogin is the login the automation posts comments as
	BotLogin string

	// PageSize is the page size used for issue and comment listings
	PageSize int

	DryRun bool
}

// DefaultConfig returns the policy used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		ThresholdDays:    90,
		ReminderCooldown: 7 * 24 * time.Hour,
		ExemptLabels: []string{
			"Status: Community help needed",
			"Status: Needs investigation",
			"Move to Discussion",
		},
		CloseLabels:        []string{"Status: Awaiting Response"},
		DiscussionLabel:    "Type: Question",
		MoveLabel:          "Move to Discussion",
		DiscussionCategory: "Q&A",
		MigrationMode:      MigrationMarkOnly,
		MarkerStrategy:     MarkerHiddenTag,
		BotLogin:           "github-actions[bot]",
		PageSize:           100,
	}
}

// Validate checks that the configuration describes a usable policy.
func (c Config) Validate() error {
	var problems []string

	if c.ThresholdDays <= 0 {
		problems = append(problems, fmt.Sprintf("threshold days must be positive, got %d", c.ThresholdDays))
	}
	if c.ReminderCooldown < 0 {
		problems = append(problems, fmt.Sprintf("reminder cooldown must not be negative, got %s", c.ReminderCooldown))
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		problems = append(problems, fmt.Sprintf("page size must be between 1 and 100, got %d", c.PageSize))
	}
	if c.BotLogin == "" {
		problems = append(problems, "bot login is required")
	}

	switch c.MigrationMode {
	case MigrationMarkOnly:
		if c.MoveLabel == "" {
			problems = append(problems, "move label is required in mark-only mode")
		}
	case MigrationFull:
		if c.DiscussionCategory == "" {
			problems = append(problems, "discussion category is required in full-migrate mode")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown migration mode %q", c.MigrationMode))
	}

	switch c.MarkerStrategy {
	case MarkerHiddenTag, MarkerTextSubstring:
	default:
		problems = append(problems, fmt.Sprintf("unknown marker strategy %q", c.MarkerStrategy))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid triage configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
