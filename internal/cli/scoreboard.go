package cli

import (
	"github.com/spf13/cobra"
)

func newScoreboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scoreboard",
		Short: "Show the current scoreboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var title EventTitle
			if err := client.Get(cmd.Context(), "/api/event_title", &title); err != nil {
				return err
			}

			var board Scoreboard
			if err := client.Get(cmd.Context(), "/api/state", &board); err != nil {
				return err
			}
			board.Title = title.Title

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(board)
			return nil
		},
	}
}
