package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/tetris-showcase/internal/api/request"
	"github.com/mcoot/tetris-showcase/internal/api/response"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin commands",
	}

	cmd.AddCommand(newAdminLoginCmd())
	cmd.AddCommand(newAdminLogoutCmd())
	cmd.AddCommand(newAdminWhoamiCmd())
	cmd.AddCommand(newAdminStatsCmd())
	cmd.AddCommand(newAdminExportCmd())
	cmd.AddCommand(newAdminClearCmd())

	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as admin and save the session token",
		Long: `Log in as admin. The session token is written to the token file so
later commands are authenticated. When --password is omitted it is read
from the first line of stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("password is required")
				}
				password = strings.TrimSpace(line)
			}

			req := request.LoginRequest{Username: username, Password: password}

			var result response.AdminSession
			if err := client.Post(cmd.Context(), "/api/v1/admin/login", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "admin", "Admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")

	return cmd
}

func newAdminLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session token and remove it from disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token != "" {
				err := client.Post(cmd.Context(), "/api/v1/admin/logout", nil, nil)
				if err != nil && !HasStatus(err, http.StatusUnauthorized) {
					return err
				}
			}
			if err := cfg.ClearToken(); err != nil {
				return err
			}

			outputFor(cmd).PrintMessage("Logged out")
			return nil
		},
	}
}

func newAdminWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the admin the saved token belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.AdminSession
			if err := client.Get(cmd.Context(), "/api/v1/admin/session", &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}
}

func newAdminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show leaderboard aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Stats
			if err := client.Get(cmd.Context(), "/api/v1/admin/stats", &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}
}

func newAdminExportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every leaderboard record",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Export
			if err := client.Post(cmd.Context(), "/api/v1/admin/export", nil, &result); err != nil {
				return err
			}

			if file == "" {
				outputFor(cmd).Print(result)
				return nil
			}

			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(file, data, 0600); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			outputFor(cmd).PrintMessage(fmt.Sprintf("Exported %d records to %s", result.TotalRecords, file))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write the export to a file instead of stdout")

	return cmd
}

func newAdminClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every leaderboard record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear the leaderboard without --yes")
			}

			var result response.ClearResult
			if err := client.Delete(cmd.Context(), "/api/v1/admin/records", &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting every record")

	return cmd
}
