package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin commands (require the admin password)",
	}

	var password string
	cmd.PersistentFlags().StringVar(&password, "password", os.Getenv("APOLLO_ADMIN_PASSWORD"), "Admin password (env: APOLLO_ADMIN_PASSWORD)")

	cmd.AddCommand(newAdminPasswordCmd(&password))
	cmd.AddCommand(newAdminPuzzlesCmd(&password))

	return cmd
}

func newAdminPasswordCmd(password *string) *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Set the admin password (only possible once)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if *password == "" {
				return fmt.Errorf("--password is required")
			}

			req := map[string]string{"password": *password}
			if err := client.Post(cmd.Context(), "/api/admin/password", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage("Admin password set")
			return nil
		},
	}
}

// puzzleDef is one puzzle in an admin batch
type puzzleDef struct {
	Solution string      `json:"solution"`
	Value    json.Number `json:"value"`
}

func newAdminPuzzlesCmd(password *string) *cobra.Command {
	var file string
	var specs []string

	cmd := &cobra.Command{
		Use:   "puzzles",
		Short: "Add a batch of puzzles",
		Long: `Add a batch of puzzles. The batch is applied entirely or not at all, and
ids that already exist are rejected.

Puzzles come from a JSON file mapping ids to {"solution", "value"} objects,
from repeated --puzzle id:value:solution flags, or both.`,
		Example: `  apollo admin puzzles --password s3cret --puzzle p1:10:forty-two
  apollo admin puzzles --password s3cret --file puzzles.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if *password == "" {
				return fmt.Errorf("--password is required")
			}

			batch := make(map[string]puzzleDef)
			if file != "" {
				if err := readPuzzleFile(file, batch); err != nil {
					return err
				}
			}
			for _, spec := range specs {
				id, def, err := parsePuzzleSpec(spec)
				if err != nil {
					return err
				}
				if _, dup := batch[id]; dup {
					return fmt.Errorf("puzzle %q given more than once", id)
				}
				batch[id] = def
			}
			if len(batch) == 0 {
				return fmt.Errorf("no puzzles given: use --file or --puzzle")
			}

			req := map[string]any{
				"password": *password,
				"puzzles":  batch,
			}
			var result PuzzlesAdded

			if err := client.Post(cmd.Context(), "/api/admin/puzzles", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file with puzzles")
	cmd.Flags().StringArrayVar(&specs, "puzzle", nil, "Puzzle as id:value:solution (repeatable)")

	return cmd
}

func readPuzzleFile(path string, into map[string]puzzleDef) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open puzzle file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	if err := dec.Decode(&into); err != nil {
		return fmt.Errorf("failed to parse puzzle file: %w", err)
	}
	return nil
}

// parsePuzzleSpec parses id:value:solution. The solution may itself contain colons.
func parsePuzzleSpec(spec string) (string, puzzleDef, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 || parts[0] == "" {
		return "", puzzleDef{}, fmt.Errorf("invalid puzzle %q: expected id:value:solution", spec)
	}
	if _, err := strconv.ParseUint(parts[1], 10, 32); err != nil {
		return "", puzzleDef{}, fmt.Errorf("invalid value for puzzle %q: %s", parts[0], parts[1])
	}
	return parts[0], puzzleDef{Solution: parts[2], Value: json.Number(parts[1])}, nil
}
