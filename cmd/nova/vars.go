package cli

import (
	"github.com/spf13/cobra"

	"github.com/novaagent/nova/internal/config"
)

// Shared CLI flags (used across multiple command files)
var (
	cfgFile string
	verbose bool
	quiet   bool
)

// ServerConfig holds the loaded server configuration (set by main)
var ServerConfig *config.Config

// SetupRootCmd configures the root command with all subcommands and flags
func SetupRootCmd(c *config.Config) *cobra.Command {
	ServerConfig = c

	rootCmd := &cobra.Command{
		Use:   "nova",
		Short: "Nova - browser automation sessions with vision analysis",
		Long: `Nova drives headless browser sessions over an HTTP API and web UI.

Just type 'nova' to start the server, then open the UI in your browser.
Sessions can navigate, click, type, scroll, and have a vision model
describe what is on the page.`,
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: embedded defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(SessionsCmd())
	rootCmd.AddCommand(HealthcheckCmd())
	rootCmd.AddCommand(DoctorCmd())

	return rootCmd
}
