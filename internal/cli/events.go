package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// errStopStream ends a stream early without reporting an error
var errStopStream = errors.New("stop stream")

func newEventsCmd() *cobra.Command {
	var jsonOutput bool
	var count int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow the live scoreboard",
		Long: `Connect to the scoreboard SSE endpoint and print every update.

Events include:
  - connected: Stream established
  - scoreboard: Full scoreboard, sent on every change and periodically

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, cmd.OutOrStdout(), jsonOutput, count)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().IntVar(&count, "count", 0, "Exit after this many scoreboard events (0 = unlimited)")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, w io.Writer, jsonOutput bool, count int) error {
	url := strings.TrimSuffix(cfg.ServerURL, "/") + "/api/state/stream"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No timeout for SSE
	httpClient := &http.Client{}

	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	out := NewOutput(cfg.Output, w)
	if !jsonOutput {
		out.PrintMessage("Connected to " + cfg.ServerURL)
	}

	seen := 0
	err = readEvents(resp.Body, func(event, data string) error {
		printEvent(out, event, data, jsonOutput)
		if event == "scoreboard" {
			seen++
			if count > 0 && seen >= count {
				return errStopStream
			}
		}
		return nil
	})

	switch {
	case errors.Is(err, errStopStream):
		return nil
	case err != nil && ctx.Err() == nil:
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		out.PrintMessage("Disconnected")
	}
	return nil
}

// readEvents parses an SSE stream, calling fn once per complete event
func readEvents(r io.Reader, fn func(event, data string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			// End of event
			if currentEvent != "" {
				if err := fn(currentEvent, strings.Join(dataLines, "\n")); err != nil {
					return err
				}
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	return scanner.Err()
}

func printEvent(out *Output, event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		out.printJSONLine(SSEEvent{
			Time:  now,
			Event: event,
			Data:  data,
		})
		return
	}

	if event == "scoreboard" {
		var board Scoreboard
		if err := json.Unmarshal([]byte(data), &board); err == nil {
			fmt.Fprintf(out.w, "\n[%s]\n", now.Format("2006-01-02 15:04:05"))
			out.printScoreboard(board)
			return
		}
	}

	fmt.Fprintf(out.w, "[%s] %s: %s\n", now.Format("2006-01-02 15:04:05"), event, strings.ReplaceAll(data, "\n", " "))
}
