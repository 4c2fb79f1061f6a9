package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/tetris-showcase/internal/api/response"
)

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Long: `Check server health. With --wait the check is retried every
half second until the server answers or the wait runs out, which is
handy right after starting the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := checkHealth(cmd.Context(), wait)
			if err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep retrying for up to this long")

	return cmd
}

func checkHealth(ctx context.Context, wait time.Duration) (response.Health, error) {
	var result response.Health
	deadline := time.Now().Add(wait)
	for {
		err := client.Get(ctx, "/api/v1/health", &result)
		if err == nil || time.Now().After(deadline) {
			return result, err
		}
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("waiting for server: %w", ctx.Err())
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// outputFor writes to the command's configured streams
func outputFor(cmd *cobra.Command) *Output {
	return NewOutputTo(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
