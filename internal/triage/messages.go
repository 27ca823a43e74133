package triage

import (
	"fmt"
	"strings"

	"github.com/danielolaszy/backlog/pkg/models"
)

const (
	// ReminderHeader is the visible first line of every reminder.
	ReminderHeader = "⏰ Friendly Reminder"

	// ReminderMarker is invisible in rendered markdown and only ever written by the bot.
	ReminderMarker = "<!-- backlog-cleanup:reminder -->"

	// MigrationMarker tags the cross-link comment so a later run can tell the
	// discussion already exists.
	MigrationMarker = "<!-- backlog-cleanup:migrated -->"

	// ClosureComment is posted right before an inactive issue is closed.
	ClosureComment = "⚠️ This issue was closed automatically due to inactivity. " +
		"Please reopen or open a new one if still relevant."
)

// ReminderComment builds the reminder addressed to every assignee.
// awaitingLabel is suggested to assignees who are blocked on someone else;
// it may be empty.
func ReminderComment(assignees []string, ageDays int, awaitingLabel string) string {
	mentions := make([]string, 0, len(assignees))
	for _, login := range assignees {
		mentions = append(mentions, "@"+login)
	}

	var b strings.Builder
	b.WriteString(ReminderMarker + "\n")
	b.WriteString(ReminderHeader + "\n\n")
	fmt.Fprintf(&b, "Hi %s!\n\n", strings.Join(mentions, ", "))
	fmt.Fprintf(&b, "This issue has had no activity for %d days. If it's still relevant:\n", ageDays)
	b.WriteString("- Please provide a status update\n")
	b.WriteString("- Add any blocking details\n")
	if awaitingLabel != "" {
		fmt.Fprintf(&b, "- Or label it '%s' if you're waiting on something\n", awaitingLabel)
	}
	b.WriteString("\nThis is just a reminder; the issue remains open for now.")
	return b.String()
}

// DiscussionBody is the body of a discussion migrated from an issue, with
// attribution to the original author.
func DiscussionBody(issue models.Issue) string {
	source := fmt.Sprintf("#%d", issue.Number)
	if issue.HTMLURL != "" {
		source = issue.HTMLURL
	}

	var b strings.Builder
	if strings.TrimSpace(issue.Body) != "" {
		b.WriteString(issue.Body)
		b.WriteString("\n\n---\n")
	}
	fmt.Fprintf(&b, "_Originally posted by @%s in %s._", issue.Author, source)
	return b.String()
}

// MigrationComment is the cross-link left on the issue before it is closed.
func MigrationComment(discussionURL string) string {
	return fmt.Sprintf("%s\nThis issue has been moved to a discussion: %s\n\nPlease continue the conversation there.",
		MigrationMarker, discussionURL)
}

// migratedDiscussionURL extracts the discussion link from a cross-link comment.
func migratedDiscussionURL(body string) string {
	for _, field := range strings.Fields(body) {
		if strings.HasPrefix(field, "https://") || strings.HasPrefix(field, "http://") {
			return field
		}
	}
	return ""
}
