// Package notify delivers the run summary to chat channels.
package notify

import (
	"context"
	"fmt"

	"github.com/danielolaszy/backlog/internal/logging"
	"github.com/danielolaszy/backlog/internal/triage"
	"github.com/slack-go/slack"
)

// SlackNotifier posts run summaries to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	repository string
}

// NewSlackNotifier returns nil when no webhook is configured.
func NewSlackNotifier(webhookURL, repository string) *SlackNotifier {
	if webhookURL == "" {
		return nil
	}
	return &SlackNotifier{webhookURL: webhookURL, repository: repository}
}

// Notify posts the summary of report. Failures are returned to the caller;
// the triage run itself has already completed at this point.
func (n *SlackNotifier) Notify(ctx context.Context, report *triage.Report) error {
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("Backlog cleanup finished for %s", n.repository),
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewSectionBlock(
					slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Backlog cleanup* for `%s`", n.repository), false, false),
					nil, nil,
				),
				slack.NewSectionBlock(
					slack.NewTextBlockObject(slack.MarkdownType, "```"+report.Summary()+"```", false, false),
					nil, nil,
				),
				slack.NewContextBlock("",
					slack.NewTextBlockObject(slack.MarkdownType, "run `"+report.RunID+"`", false, false),
				),
			},
		},
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return fmt.Errorf("failed to post summary to slack: %w", err)
	}

	logging.Debug("posted summary to slack", "repository", n.repository, "run_id", report.RunID)
	return nil
}
