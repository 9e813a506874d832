package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "apollo",
		Short: "CLI tool for the apollo scoreboard API",
		Long: `apollo is a CLI tool for interacting with the puzzle competition JSON API.

It supports joining as a team, submitting solutions, admin puzzle management,
and following the live scoreboard over SSE.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: APOLLO_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Session token (env: APOLLO_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: APOLLO_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newJoinCmd())
	rootCmd.AddCommand(newWhoAmICmd())
	rootCmd.AddCommand(newSubmitCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newAdminCmd())
	rootCmd.AddCommand(newScoreboardCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		NewOutput(cfg.Output, rootCmd.ErrOrStderr()).PrintError(err)
		os.Exit(1)
	}
}
