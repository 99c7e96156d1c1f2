// Package cmd wires the devready command tree. With no subcommand the TUI
// starts; the subcommands cover scripting and troubleshooting.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devready",
	Short: "Gamified interview prep in your terminal",
	Long: `DevReady turns interview prep into a game: AI-generated quizzes,
spaced flashcards and weekly leagues, all from the terminal.
Progress is kept locally and synced with the DevReady backend.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runApp(cmd)
	},
}

// Execute runs the command tree. Errors are returned unprinted so main can
// report them once.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default $XDG_CONFIG_HOME/devready/config.yaml)")
	pf.String("db", "", "SQLite database file, overrides DEVREADY_DB")
	pf.String("api-url", "", "Backend base URL, overrides DEVREADY_API_BASE_URL")
	pf.String("log-level", "", "One of debug, info, warn or error")

	rootCmd.AddCommand(
		loginCmd,
		logoutCmd,
		profileCmd,
		leaderboardCmd,
		llmCmd,
		versionCmd,
	)
}
