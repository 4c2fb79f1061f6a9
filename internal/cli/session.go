package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/tetris-showcase/internal/api/request"
	"github.com/mcoot/tetris-showcase/internal/api/response"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Live session commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionCommandCmd())
	cmd.AddCommand(newSessionTickCmd())
	cmd.AddCommand(newSessionAutoplayCmd())
	cmd.AddCommand(newSessionEndCmd())

	return cmd
}

func sessionPath(id string, parts ...string) string {
	path := "/api/v1/sessions/" + url.PathEscape(id)
	for _, p := range parts {
		path += "/" + url.PathEscape(p)
	}
	return path
}

// parsePlayer reads "name" or "name:company"
func parsePlayer(s string) (request.PlayerProfile, error) {
	name, company, _ := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return request.PlayerProfile{}, fmt.Errorf("player %q has no name", s)
	}
	return request.PlayerProfile{Name: name, Company: strings.TrimSpace(company)}, nil
}

func newSessionCreateCmd() *cobra.Command {
	var players []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a single or two player session",
		Example: `  tetrisctl session create --player alice
  tetrisctl session create --player alice:Acme --player bob:Initech`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(players) == 0 {
				return errors.New("at least one --player is required")
			}

			req := request.CreateSessionRequest{}
			for _, p := range players {
				profile, err := parsePlayer(p)
				if err != nil {
					return err
				}
				req.Players = append(req.Players, profile)
			}

			var result response.Session
			if err := client.Post(cmd.Context(), "/api/v1/sessions", req, &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&players, "player", "p", nil, "Player as name or name:company (repeat for two players)")

	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SessionList
			if err := client.Get(cmd.Context(), "/api/v1/sessions", &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session>",
		Short: "Show every player's board and stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session
			if err := client.Get(cmd.Context(), sessionPath(args[0]), &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}
}

func newSessionCommandCmd() *cobra.Command {
	var (
		player int
		method string
	)

	cmd := &cobra.Command{
		Use:   "command <session> <command>...",
		Short: "Send one or more inputs to a player",
		Long: `Send inputs to a player's game in order. Commands are move_left,
move_right, soft_drop, rotate, hard_drop, pause, resume, toggle_pause
and reset. The player's state after the last input is printed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			path := sessionPath(id, "players", fmt.Sprint(player), "commands")

			var result response.PlayerView
			for _, c := range args[1:] {
				req := request.CommandRequest{Command: c, InputMethod: method}
				if err := client.Post(cmd.Context(), path, req, &result); err != nil {
					return err
				}
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&player, "player", 1, "Player number (1 or 2)")
	cmd.Flags().StringVar(&method, "method", "", "Input method: keyboard, gamepad")

	return cmd
}

func newSessionTickCmd() *cobra.Command {
	var delta time.Duration

	cmd := &cobra.Command{
		Use:   "tick <session>",
		Short: "Advance gravity by a time delta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if delta < 0 {
				return errors.New("delta must not be negative")
			}

			req := request.TickRequest{DeltaMS: delta.Milliseconds()}

			var result response.Session
			if err := client.Post(cmd.Context(), sessionPath(args[0], "tick"), req, &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().DurationVarP(&delta, "delta", "d", time.Second, "Time to advance")

	return cmd
}

func newSessionAutoplayCmd() *cobra.Command {
	var (
		player int
		req    request.AutoplayRequest
	)

	cmd := &cobra.Command{
		Use:   "autoplay <session>",
		Short: "Let the demo bot place pieces for a player",
		Long: `Let the demo bot place pieces for a player. Bot games are shown live
like any other game but are never recorded on the leaderboard.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := sessionPath(args[0], "players", fmt.Sprint(player), "autoplay")

			var result response.Autoplay
			if err := client.Post(cmd.Context(), path, req, &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&player, "player", 1, "Player number (1 or 2)")
	cmd.Flags().StringVar(&req.Strategy, "strategy", "", "Bot strategy: greedy, random (default: greedy)")
	cmd.Flags().IntVarP(&req.Pieces, "pieces", "n", 0, "Pieces to place (default: 10)")

	return cmd
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session>",
		Short: "End a session and disconnect its watchers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := client.Delete(cmd.Context(), sessionPath(id), nil); err != nil {
				return err
			}

			outputFor(cmd).PrintMessage(fmt.Sprintf("Ended session %s", id))
			return nil
		},
	}
}
