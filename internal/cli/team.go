package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <username>",
		Short: "Join the competition as a team",
		Long: `Join the competition as a team. The team is created on first join and
keeps its progress across logouts. The session token is saved to the token file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"username": args[0]}
			var result JoinResult

			if err := client.Post(cmd.Context(), "/api/join", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			client.SetToken(result.SessionToken)

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the team the current token belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AuthState

			if err := client.Get(cmd.Context(), "/api/auth_state", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <puzzle-id> <solution>",
		Short: "Submit a solution for a puzzle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return fmt.Errorf("not logged in: run 'apollo join' first")
			}

			req := map[string]string{
				"puzzle_id": args[0],
				"solution":  args[1],
			}
			var result SubmitResult

			if err := client.Post(cmd.Context(), "/api/submit", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	var wipe bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Long: `End the current session. With --wipe the team and all of its solved
puzzles are deleted as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return fmt.Errorf("not logged in")
			}

			req := map[string]bool{"wipe": wipe}
			if err := client.Post(cmd.Context(), "/api/logout", req, nil); err != nil {
				return err
			}

			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			if wipe {
				out.PrintMessage("Logged out and team deleted")
			} else {
				out.PrintMessage("Logged out")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&wipe, "wipe", false, "Delete the team and its progress")

	return cmd
}
