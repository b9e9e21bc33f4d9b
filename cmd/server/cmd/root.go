package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "frontdoor",
	Short: "Frontdoor login and home screens",
	Long: `Frontdoor serves the login/register screen and the signed-in home screen.

Available commands:
  serve      Start the HTTP server
  version    Print the version

Use "frontdoor [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
