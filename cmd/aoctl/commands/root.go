// Package commands implements the CLI commands for aoctl.
package commands

import "github.com/spf13/cobra"

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// GlobalFlags holds the flag values shared by every subcommand.
type GlobalFlags struct {
	ServerURL string
	Token     string
	Force     bool
}

// Flags stores the current invocation's global flag values.
var Flags = &GlobalFlags{}

var rootCmd = &cobra.Command{
	Use:   "aoctl",
	Short: "aoctl - operator CLI for aoserver's admin API",
	Long: `aoctl talks to a running aoserver's admin API: list active
sessions, kick a player, or ban an address.

Run "aoctl login" first to authenticate against a server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Flags.ServerURL, _ = cmd.Flags().GetString("server")
		Flags.Token, _ = cmd.Flags().GetString("token")
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "admin API base URL (overrides stored login)")
	rootCmd.PersistentFlags().String("token", "", "bearer token (overrides stored login)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(banCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("aoctl %s (commit %s, built %s)\n", Version, Commit, Date)
		return nil
	},
}
