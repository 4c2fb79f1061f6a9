package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/tetris-showcase/internal/api/response"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events <session>",
		Short: "Stream live analytics from a session",
		Long: `Connect to the session's SSE endpoint and stream events in real-time.

Events include:
  - connected: Stream established
  - player-update: A player's board or stats changed
  - analytics: Compact stats push for a player
  - player-panel: HTML fragment for the spectator page
  - session-ended: The session was ended; the stream closes

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(cmd.Context(), cmd.OutOrStdout(), args[0], jsonOutput || cfg.Output == OutputJSON)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, w io.Writer, sessionID string, jsonOutput bool) error {
	body, err := client.Stream(ctx, sessionPath(sessionID, "events"))
	if HasStatus(err, http.StatusNotFound) {
		return fmt.Errorf("session %s not found", sessionID)
	}
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	if !jsonOutput {
		_, _ = fmt.Fprintf(w, "Watching session %s\n", sessionID)
	}

	var event string
	var data []string
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if event != "" {
				printEvent(w, event, strings.Join(data, "\n"), jsonOutput)
			}
			event, data = "", nil
			continue
		}
		// Lines starting with ':' are keepalive comments and fall through
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			event = value
		case "data":
			data = append(data, value)
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}
	if !jsonOutput {
		_, _ = fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

func printEvent(w io.Writer, event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		jsonData, _ := json.Marshal(SSEEvent{Time: now, Event: event, Data: data})
		_, _ = fmt.Fprintln(w, string(jsonData))
		return
	}

	_, _ = fmt.Fprintf(w, "[%s] %s: %s\n", now.Format("2006-01-02 15:04:05"), event, summarizeEvent(event, data))
}

// summarizeEvent renders one line of text for an event payload
func summarizeEvent(event, data string) string {
	if event == "analytics" {
		var a response.Analytics
		if err := json.Unmarshal([]byte(data), &a); err == nil {
			line := fmt.Sprintf("player %d score=%d level=%d lines=%d accuracy=%.1f%% avg_reaction=%dms",
				a.Player, a.Score, a.Level, a.Lines, a.InputAccuracy, a.AverageReactionMS)
			if a.IsGameOver {
				line += " [game over]"
			}
			return line
		}
	}

	display := strings.ReplaceAll(data, "\n", " ")
	if len(display) > 100 {
		display = display[:100] + "..."
	}
	return display
}
