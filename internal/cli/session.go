package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/sleuthgame-go/internal/api/request"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Session lifecycle commands",
	}

	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionLeaveCmd())
	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionFinishCmd())

	return cmd
}

// parseID parses a positive numeric id argument
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", what, arg)
	}
	return id, nil
}

func newSessionListCmd() *cobra.Command {
	var phase string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/sessions"
			if phase != "" {
				path += "?" + url.Values{"phase": {phase}}.Encode()
			}

			var result []response.SessionSummary
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "Only list sessions in this phase")

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var req request.CreateSessionRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session with its host seated",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session
			if err := client.Post(cmd.Context(), "/api/v1/sessions", req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Session name (required)")
	cmd.Flags().IntVar(&req.MinPlayers, "min-players", 0, "Minimum players (default: server default)")
	cmd.Flags().IntVar(&req.MaxPlayers, "max-players", 0, "Maximum players (default: server default)")
	cmd.Flags().StringVar(&req.Host.Name, "host", "", "Host player name (required)")
	cmd.Flags().StringVar(&req.Host.BirthDate, "host-birth-date", "", "Host birth date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("host")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session>",
		Short: "Get session details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}

			var result response.Session
			if err := client.Get(cmd.Context(), sessionPath(id), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionJoinCmd() *cobra.Command {
	var req request.PlayerRequest

	cmd := &cobra.Command{
		Use:   "join <session>",
		Short: "Take a seat in a session's lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}

			var result response.JoinResponse
			if err := client.Post(cmd.Context(), sessionPath(id, "join"), req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Player name (required)")
	cmd.Flags().StringVar(&req.BirthDate, "birth-date", "", "Birth date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSessionLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <session> <player>",
		Short: "Leave a session's lobby",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}
			pid, err := parseID(args[1], "player id")
			if err != nil {
				return err
			}

			var result response.LeaveResponse
			req := request.LeaveRequest{PlayerID: pid}
			if err := client.Post(cmd.Context(), sessionPath(id, "leave"), req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <session>",
		Short: "Deal cards and secrets and begin play",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}

			var result response.Session
			if err := client.Post(cmd.Context(), sessionPath(id, "start"), nil, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionFinishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finish <session>",
		Short: "End a session in progress (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}

			var result response.FinishResponse
			req := request.FinishRequest{Reason: "ended_by_host"}
			if err := client.Post(cmd.Context(), sessionPath(id, "finish"), req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}
