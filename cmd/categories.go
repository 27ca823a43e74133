package cmd

import (
	"fmt"
	"strings"

	"github.com/danielolaszy/backlog/internal/config"
	"github.com/danielolaszy/backlog/internal/github"
	"github.com/danielolaszy/backlog/internal/logging"
	"github.com/danielolaszy/backlog/pkg/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// categoriesCmd lists the discussion categories of a repository.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List discussion categories of a repository",
	Long: `List the GitHub Discussions categories of a repository.

Full migration moves questions into the category named by --category
(or BACKLOG_DISCUSSION_CATEGORY). Use this command to check the name exists.`,
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

		githubClient, err := github.NewClient(cfg.GitHub, repository)
		if err != nil {
			return fmt.Errorf("failed to initialize GitHub client: %w", err)
		}

		categories, err := githubClient.ListDiscussionCategories(cmd.Context())
		if err != nil {
			return err
		}

		logging.Debug("fetched discussion categories", "repository", repository, "count", len(categories))
		printCategories(cmd, categories, cfg.Policy.DiscussionCategory)
		return nil
	},
}

// printCategories writes one category per line, highlighting the configured target.
func printCategories(cmd *cobra.Command, categories []models.DiscussionCategory, target string) {
	out := cmd.OutOrStdout()
	if len(categories) == 0 {
		fmt.Fprintln(out, "No discussion categories found (are Discussions enabled?)")
		return
	}

	found := false
	for _, category := range categories {
		line := fmt.Sprintf("%-30s %s", category.Name, category.ID)
		if strings.EqualFold(category.Name, target) {
			found = true
			line = color.GreenString("%s  <- migration target", line)
		}
		fmt.Fprintln(out, line)
	}

	if !found && target != "" {
		fmt.Fprintln(out, color.YellowString("Configured category %q does not exist", target))
	}
}
