package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielolaszy/backlog/internal/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable LoadConfig reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_TOKEN", "GITHUB_DOMAIN", "GITHUB_MUTATIONS_PER_SECOND",
		"BACKLOG_CONFIG", "BACKLOG_DRY_RUN", "BACKLOG_THRESHOLD_DAYS", "BACKLOG_COOLDOWN_DAYS",
		"BACKLOG_EXEMPT_LABELS", "BACKLOG_CLOSE_LABELS", "BACKLOG_DISCUSSION_LABEL",
		"BACKLOG_MOVE_LABEL", "BACKLOG_DISCUSSION_CATEGORY", "BACKLOG_MIGRATION_MODE",
		"BACKLOG_MARKER_STRATEGY", "BACKLOG_BOT_LOGIN", "SLACK_WEBHOOK_URL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadGitHubConfig(t *testing.T) {
	tests := []struct {
		name    string
		domain  string
		token   string
		wantErr bool
	}{
		{name: "Explicit github.com", domain: "github.com", token: "test-token"},
		{name: "Custom GitHub domain", domain: "github.example.com", token: "test-token"},
		{name: "Empty domain should default to github.com", domain: "", token: "test-token"},
		{name: "Missing token", domain: "github.com", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GITHUB_DOMAIN", tt.domain)
			t.Setenv("GITHUB_TOKEN", tt.token)

			config, err := LoadConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, config)
				return
			}

			require.NoError(t, err)
			if tt.domain == "" {
				assert.Equal(t, "github.com", config.GitHub.Domain)
			} else {
				assert.Equal(t, tt.domain, config.GitHub.Domain)
			}
			assert.Equal(t, tt.token, config.GitHub.Token)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "test-token")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 1.0, config.GitHub.MutationsPerSecond)
	assert.Equal(t, triage.DefaultConfig(), config.Policy.Triage())
	assert.Empty(t, config.Policy.BotLogin)
	assert.Empty(t, config.Slack.WebhookURL)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("BACKLOG_DRY_RUN", "true")
	t.Setenv("BACKLOG_THRESHOLD_DAYS", "30")
	t.Setenv("BACKLOG_COOLDOWN_DAYS", "3")
	t.Setenv("BACKLOG_EXEMPT_LABELS", "Status: Blocked, pinned ,")
	t.Setenv("BACKLOG_CLOSE_LABELS", "Status: Awaiting Response,wontfix")
	t.Setenv("BACKLOG_MIGRATION_MODE", "full-migrate")
	t.Setenv("BACKLOG_MARKER_STRATEGY", "text-substring")
	t.Setenv("BACKLOG_DISCUSSION_CATEGORY", "Ideas")
	t.Setenv("BACKLOG_BOT_LOGIN", "triage-bot")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/X")

	config, err := LoadConfig()
	require.NoError(t, err)

	policy := config.Policy.Triage()
	assert.True(t, policy.DryRun)
	assert.Equal(t, 30, policy.ThresholdDays)
	assert.Equal(t, 3*24*time.Hour, policy.ReminderCooldown)
	assert.Equal(t, []string{"Status: Blocked", "pinned"}, policy.ExemptLabels)
	assert.Equal(t, []string{"Status: Awaiting Response", "wontfix"}, policy.CloseLabels)
	assert.Equal(t, triage.MigrationFull, policy.MigrationMode)
	assert.Equal(t, triage.MarkerTextSubstring, policy.MarkerStrategy)
	assert.Equal(t, "Ideas", policy.DiscussionCategory)
	assert.Equal(t, "triage-bot", policy.BotLogin)
	assert.Equal(t, "https://hooks.slack.com/services/T/B/X", config.Slack.WebhookURL)
	assert.NoError(t, policy.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "test-token")

	path := filepath.Join(t.TempDir(), "backlog.yaml")
	content := `policy:
  threshold_days: 60
  exempt_labels:
    - "Status: Community help needed"
    - "good first issue"
  discussion_label: "question"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("BACKLOG_CONFIG", path)

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 60, config.Policy.ThresholdDays)
	assert.Equal(t, []string{"Status: Community help needed", "good first issue"}, config.Policy.ExemptLabels)
	assert.Equal(t, "question", config.Policy.DiscussionLabel)
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("BACKLOG_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "Valid",
			config: Config{
				GitHub: GitHubConfig{Token: "t", MutationsPerSecond: 1},
				Policy: PolicyConfig{ThresholdDays: 90, CooldownDays: 7},
			},
		},
		{
			name: "Missing token",
			config: Config{
				Policy: PolicyConfig{ThresholdDays: 90},
			},
			wantErr: "GITHUB_TOKEN",
		},
		{
			name: "Zero threshold",
			config: Config{
				GitHub: GitHubConfig{Token: "t"},
				Policy: PolicyConfig{ThresholdDays: 0},
			},
			wantErr: "BACKLOG_THRESHOLD_DAYS",
		},
		{
			name: "Negative cooldown",
			config: Config{
				GitHub: GitHubConfig{Token: "t"},
				Policy: PolicyConfig{ThresholdDays: 1, CooldownDays: -1},
			},
			wantErr: "BACKLOG_COOLDOWN_DAYS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , ,"))
	assert.Equal(t, []string{"a b", "c"}, SplitList(" a b ,c"))
}
