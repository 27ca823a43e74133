package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/danielolaszy/backlog/internal/config"
	"github.com/danielolaszy/backlog/internal/github"
	"github.com/danielolaszy/backlog/internal/logging"
	"github.com/danielolaszy/backlog/internal/notify"
	"github.com/danielolaszy/backlog/internal/triage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cleanupCmd runs one triage pass over the open issues of a repository.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Close, remind or migrate inactive issues",
	Long: `Run one backlog cleanup pass over all open issues of a repository.

Each issue receives exactly one action, decided in this order:

1. Issues with an exempt label are skipped
2. Issues with the discussion label are marked for discussion (or migrated
   to a discussion with --migration full-migrate), whatever their age
3. Issues updated within the last --threshold-days days are skipped
4. Issues with a close label, or without assignees, are closed with a comment
5. Remaining issues get a reminder addressed to their assignees, unless the
   bot already reminded them within --cooldown-days days

Pull requests are never touched. Use --dry-run to see what would happen.

Example:
  backlog cleanup -r owner/repo --dry-run
  backlog cleanup -r owner/repo --close-label "Status: Awaiting Response" --threshold-days 60`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repository, err := cmd.Flags().GetString("repository")
		if err != nil {
			return err
		}
		if repository == "" {
			return fmt.Errorf("repository flag is required")
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		policy, err := policyFromFlags(cmd.Flags(), cfg.Policy.Triage())
		if err != nil {
			return err
		}

		githubClient, err := github.NewClient(cfg.GitHub, repository)
		if err != nil {
			return fmt.Errorf("failed to initialize github client: %w", err)
		}

		if cfg.Policy.BotLogin == "" && !cmd.Flags().Changed("bot-login") {
			policy.BotLogin = resolveBotLogin(cmd.Context(), githubClient, policy.BotLogin)
		}

		runner, err := triage.NewRunner(githubClient, policy)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if policy.DryRun {
			fmt.Fprintln(out, color.YellowString("DRY RUN MODE - no changes will be made"))
		}

		report, err := runner.Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(out, report.Summary())

		if notifier := notify.NewSlackNotifier(cfg.Slack.WebhookURL, repository); notifier != nil {
			if err := notifier.Notify(cmd.Context(), report); err != nil {
				logging.Warn("summary notification failed", "error", err)
			}
		}

		return nil
	},
}

func init() {
	addCleanupFlags(cleanupCmd.Flags())
}

func addCleanupFlags(f *pflag.FlagSet) {
	f.Bool("dry-run", false, "Report intended actions without changing anything")
	f.Int("threshold-days", 0, "Days of inactivity before an issue is closed or reminded (default from config: 90)")
	f.Int("cooldown-days", 0, "Minimum days between two reminders on the same issue (default from config: 7); "+
		"only reminders posted by --bot-login count")
	f.StringArray("exempt-label", nil, "Label that exempts an issue from cleanup (repeatable, replaces configured list)")
	f.StringArray("close-label", nil, "Label that forces closure of inactive issues (repeatable, replaces configured list)")
	f.String("discussion-label", "", "Label that routes an issue to discussions")
	f.String("move-label", "", "Label added to issues marked for discussion")
	f.String("category", "", "Discussion category used by full migration")
	f.String("migration", "", "Discussion handling: mark-only or full-migrate")
	f.String("marker", "", "Reminder detection: hidden-tag or text-substring")
	f.String("bot-login", "", "Login the reminders are posted as (default: the token's user, or github-actions[bot])")
}

// loginResolver reports which account the GitHub token acts as.
type loginResolver interface {
	AuthenticatedLogin(ctx context.Context) (string, error)
}

// resolveBotLogin returns the token owner's login, or fallback when the token
// has no user behind it.
func resolveBotLogin(ctx context.Context, resolver loginResolver, fallback string) string {
	login, err := resolver.AuthenticatedLogin(ctx)
	if err != nil || login == "" {
		logging.Debug("using default bot login", "login", fallback, "error", err)
		return fallback
	}
	logging.Info("comments will be posted as authenticated user", "login", login)
	return login
}

// policyFromFlags overlays explicitly set flags on the configured policy and
// validates the result.
func policyFromFlags(flags *pflag.FlagSet, base triage.Config) (triage.Config, error) {
	cfg := base

	if flags.Changed("dry-run") {
		v, _ := flags.GetBool("dry-run")
		cfg.DryRun = v
	}
	if flags.Changed("threshold-days") {
		v, _ := flags.GetInt("threshold-days")
		cfg.ThresholdDays = v
	}
	if flags.Changed("cooldown-days") {
		v, _ := flags.GetInt("cooldown-days")
		cfg.ReminderCooldown = time.Duration(v) * 24 * time.Hour
	}
	if flags.Changed("exempt-label") {
		v, _ := flags.GetStringArray("exempt-label")
		cfg.ExemptLabels = v
	}
	if flags.Changed("close-label") {
		v, _ := flags.GetStringArray("close-label")
		cfg.CloseLabels = v
	}
	if flags.Changed("discussion-label") {
		cfg.DiscussionLabel, _ = flags.GetString("discussion-label")
	}
	if flags.Changed("move-label") {
		cfg.MoveLabel, _ = flags.GetString("move-label")
	}
	if flags.Changed("category") {
		cfg.DiscussionCategory, _ = flags.GetString("category")
	}
	if flags.Changed("migration") {
		v, _ := flags.GetString("migration")
		cfg.MigrationMode = triage.MigrationMode(v)
	}
	if flags.Changed("marker") {
		v, _ := flags.GetString("marker")
		cfg.MarkerStrategy = triage.MarkerStrategy(v)
	}
	if flags.Changed("bot-login") {
		cfg.BotLogin, _ = flags.GetString("bot-login")
	}

	if err := cfg.Validate(); err != nil {
		return triage.Config{}, err
	}
	return cfg, nil
}
