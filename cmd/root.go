// Package cmd provides the command-line interface for the backlog CLI tool.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backlog",
	Short: "Backlog keeps a GitHub issue tracker tidy",
	Long: `Backlog is a CLI tool that triages the open issues of a GitHub repository.
It closes inactive issues, reminds assignees of stale work and moves questions
to GitHub Discussions, following one fixed policy on every run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add persistent flags that will be available to all commands
	rootCmd.PersistentFlags().StringP("repository", "r", "", "GitHub repository name (e.g., 'owner/repo')")

	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(categoriesCmd)
}
