// Package config provides centralized configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/danielolaszy/backlog/internal/logging"
	"github.com/danielolaszy/backlog/internal/triage"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	GitHub GitHubConfig
	Policy PolicyConfig
	Slack  SlackConfig
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	Token  string
	Domain string

	// MutationsPerSecond paces comment, label and state calls
	MutationsPerSecond float64
}

// PolicyConfig holds the triage policy settings as read from the environment.
type PolicyConfig struct {
	DryRun             bool
	ThresholdDays      int
	CooldownDays       int
	ExemptLabels       []string
	CloseLabels        []string
	DiscussionLabel    string
	MoveLabel          string
	DiscussionCategory string
	MigrationMode      string
	MarkerStrategy     string

	// BotLogin is empty unless configured; the cleanup command then asks
	// GitHub who the token belongs to
	BotLogin string
}

// SlackConfig holds the optional Slack notification settings.
type SlackConfig struct {
	WebhookURL string
}

// Triage converts the policy settings into the immutable triage configuration.
func (p PolicyConfig) Triage() triage.Config {
	cfg := triage.DefaultConfig()
	cfg.DryRun = p.DryRun
	cfg.ThresholdDays = p.ThresholdDays
	cfg.ReminderCooldown = time.Duration(p.CooldownDays) * 24 * time.Hour
	cfg.ExemptLabels = p.ExemptLabels
	cfg.CloseLabels = p.CloseLabels
	cfg.DiscussionLabel = p.DiscussionLabel
	cfg.MoveLabel = p.MoveLabel
	cfg.DiscussionCategory = p.DiscussionCategory
	cfg.MigrationMode = triage.MigrationMode(p.MigrationMode)
	cfg.MarkerStrategy = triage.MarkerStrategy(p.MarkerStrategy)
	if p.BotLogin != "" {
		cfg.BotLogin = p.BotLogin
	}
	return cfg
}

// LoadConfig initializes and loads configuration from a .env file, an optional
// config file named by BACKLOG_CONFIG and environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// Map specific environment variables
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.domain", "GITHUB_DOMAIN")
	v.BindEnv("github.mutations_per_second", "GITHUB_MUTATIONS_PER_SECOND")
	v.BindEnv("policy.dry_run", "BACKLOG_DRY_RUN")
	v.BindEnv("policy.threshold_days", "BACKLOG_THRESHOLD_DAYS")
	v.BindEnv("policy.cooldown_days", "BACKLOG_COOLDOWN_DAYS")
	v.BindEnv("policy.exempt_labels", "BACKLOG_EXEMPT_LABELS")
	v.BindEnv("policy.close_labels", "BACKLOG_CLOSE_LABELS")
	v.BindEnv("policy.discussion_label", "BACKLOG_DISCUSSION_LABEL")
	v.BindEnv("policy.move_label", "BACKLOG_MOVE_LABEL")
	v.BindEnv("policy.discussion_category", "BACKLOG_DISCUSSION_CATEGORY")
	v.BindEnv("policy.migration_mode", "BACKLOG_MIGRATION_MODE")
	v.BindEnv("policy.marker_strategy", "BACKLOG_MARKER_STRATEGY")
	v.BindEnv("policy.bot_login", "BACKLOG_BOT_LOGIN")
	v.BindEnv("slack.webhook_url", "SLACK_WEBHOOK_URL")

	if path := os.Getenv("BACKLOG_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		logging.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	config := &Config{
		GitHub: GitHubConfig{
			Token:              v.GetString("github.token"),
			Domain:             v.GetString("github.domain"),
			MutationsPerSecond: v.GetFloat64("github.mutations_per_second"),
		},
		Policy: PolicyConfig{
			DryRun:             v.GetBool("policy.dry_run"),
			ThresholdDays:      v.GetInt("policy.threshold_days"),
			CooldownDays:       v.GetInt("policy.cooldown_days"),
			ExemptLabels:       getList(v, "policy.exempt_labels"),
			CloseLabels:        getList(v, "policy.close_labels"),
			DiscussionLabel:    v.GetString("policy.discussion_label"),
			MoveLabel:          v.GetString("policy.move_label"),
			DiscussionCategory: v.GetString("policy.discussion_category"),
			MigrationMode:      v.GetString("policy.migration_mode"),
			MarkerStrategy:     v.GetString("policy.marker_strategy"),
			BotLogin:           v.GetString("policy.bot_login"),
		},
		Slack: SlackConfig{
			WebhookURL: v.GetString("slack.webhook_url"),
		},
	}

	if config.GitHub.Domain == "" {
		config.GitHub.Domain = "github.com"
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	logging.Debug("configuration loaded",
		"github_domain", config.GitHub.Domain,
		"github_token", logging.MaskSensitive(config.GitHub.Token),
		"slack_webhook", logging.MaskSensitive(config.Slack.WebhookURL))

	return config, nil
}

func setDefaults(v *viper.Viper) {
	d := triage.DefaultConfig()
	v.SetDefault("github.domain", "github.com")
	v.SetDefault("github.mutations_per_second", 1.0)
	v.SetDefault("policy.dry_run", false)
	v.SetDefault("policy.threshold_days", d.ThresholdDays)
	v.SetDefault("policy.cooldown_days", int(d.ReminderCooldown/(24*time.Hour)))
	v.SetDefault("policy.exempt_labels", strings.Join(d.ExemptLabels, ","))
	v.SetDefault("policy.close_labels", strings.Join(d.CloseLabels, ","))
	v.SetDefault("policy.discussion_label", d.DiscussionLabel)
	v.SetDefault("policy.move_label", d.MoveLabel)
	v.SetDefault("policy.discussion_category", d.DiscussionCategory)
	v.SetDefault("policy.migration_mode", string(d.MigrationMode))
	v.SetDefault("policy.marker_strategy", string(d.MarkerStrategy))
}

// getList reads a label list. Environment values are comma separated because
// label names may contain spaces; config files may use a native list.
func getList(v *viper.Viper, key string) []string {
	switch raw := v.Get(key).(type) {
	case string:
		return SplitList(raw)
	case nil:
		return nil
	default:
		return v.GetStringSlice(key)
	}
}

// SplitList splits a comma separated list, trimming blanks and dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// validateConfig ensures that all required configuration values are provided.
func validateConfig(config *Config) error {
	var problems []string

	if config.GitHub.Token == "" {
		problems = append(problems, "missing required environment variable GITHUB_TOKEN")
	}
	if config.GitHub.MutationsPerSecond < 0 {
		problems = append(problems, "GITHUB_MUTATIONS_PER_SECOND must not be negative")
	}
	if config.Policy.ThresholdDays <= 0 {
		problems = append(problems, "BACKLOG_THRESHOLD_DAYS must be positive")
	}
	if config.Policy.CooldownDays < 0 {
		problems = append(problems, "BACKLOG_COOLDOWN_DAYS must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
