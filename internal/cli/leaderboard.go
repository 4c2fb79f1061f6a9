package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/tetris-showcase/internal/api/request"
	"github.com/mcoot/tetris-showcase/internal/api/response"
)

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "leaderboard",
		Aliases: []string{"lb"},
		Short:   "Leaderboard commands",
	}

	cmd.AddCommand(newLeaderboardListCmd())
	cmd.AddCommand(newLeaderboardGetCmd())
	cmd.AddCommand(newLeaderboardSubmitCmd())
	cmd.AddCommand(newLeaderboardDeleteCmd())

	return cmd
}

func newLeaderboardListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List top records by score",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/leaderboard"
			if limit > 0 {
				path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
			}

			var result response.Leaderboard
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum records to show (default: server default)")

	return cmd
}

func newLeaderboardGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a single record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Record
			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/leaderboard/%s", url.PathEscape(args[0])), &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}
}

func newLeaderboardSubmitCmd() *cobra.Command {
	var (
		req      request.RecordRequest
		reaction time.Duration
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a finished game",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.AverageReactionTimeMS = reaction.Milliseconds()
			req.GameDurationMS = duration.Milliseconds()

			var result response.Record
			if err := client.Post(cmd.Context(), "/api/v1/leaderboard", req, &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Player display name (required)")
	cmd.Flags().StringVar(&req.Email, "email", "", "Player email")
	cmd.Flags().StringVar(&req.Company, "company", "", "Player company")
	cmd.Flags().StringVar(&req.RealName, "real-name", "", "Player real name")
	cmd.Flags().IntVar(&req.Score, "score", 0, "Final score")
	cmd.Flags().IntVar(&req.Level, "level", 1, "Final level")
	cmd.Flags().IntVar(&req.Lines, "lines", 0, "Lines cleared")
	cmd.Flags().IntVar(&req.Tetrises, "tetrises", 0, "Tetrises scored")
	cmd.Flags().IntVar(&req.PiecesPlaced, "pieces", 0, "Pieces placed")
	cmd.Flags().Float64Var(&req.InputAccuracy, "accuracy", 100, "Input accuracy percentage")
	cmd.Flags().Float64Var(&req.Intensity, "intensity", 0, "Inputs per minute")
	cmd.Flags().DurationVar(&reaction, "reaction", 0, "Average reaction time")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Game duration")
	cmd.Flags().StringVar(&req.GameMode, "mode", "", "Game mode: single, multiplayer")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newLeaderboardDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := client.Delete(cmd.Context(), fmt.Sprintf("/api/v1/leaderboard/%s", url.PathEscape(id)), nil); err != nil {
				return err
			}

			outputFor(cmd).PrintMessage(fmt.Sprintf("Deleted record %s", id))
			return nil
		},
	}
}
