package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the whenfree application
var rootCmd = &cobra.Command{
	Use:   "whenfree",
	Short: "Google Calendar availability and scheduling MCP server",
	Long: `whenfree answers "when are we all free?" over Google Calendar.

It computes mutual availability across calendars, finds open slots under
duration and working-hours constraints, books mutual meetings, projects
recurring events and flags unusually busy days.

All functionality is exposed as MCP (Model Context Protocol) tools for
AI assistants. Run "whenfree serve" to start the server.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "whenfree version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
