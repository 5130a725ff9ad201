package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/sleuthgame-go/internal/api/request"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
)

func newSetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sets",
		Short: "Detective set commands",
	}

	cmd.AddCommand(newSetsComposeCmd())
	cmd.AddCommand(newSetsListCmd())
	cmd.AddCommand(newSetsFirstCmd())
	cmd.AddCommand(newSetsTransferCmd())

	return cmd
}

func newSetsComposeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compose <session> <card>...",
		Short: "Lay down detective cards from one hand as a set",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}
			var req request.ComposeSetRequest
			for _, arg := range args[1:] {
				cardID, err := parseID(arg, "card id")
				if err != nil {
					return err
				}
				req.CardIDs = append(req.CardIDs, cardID)
			}

			var result response.Set
			if err := client.Post(cmd.Context(), sessionPath(id, "sets"), req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newSetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <session> <player>",
		Short: "Show the sets a player owns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, pid, err := sessionAndPlayerArgs(args)
			if err != nil {
				return err
			}

			var result []response.Set
			if err := client.Get(cmd.Context(), playerPath(id, pid, "sets"), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newSetsFirstCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "first <session> <player>",
		Short: "Show the first set a player laid down",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, pid, err := sessionAndPlayerArgs(args)
			if err != nil {
				return err
			}

			var result response.Set
			if err := client.Get(cmd.Context(), playerPath(id, pid, "set"), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newSetsTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <session> <set> <target-player>",
		Short: "Hand a set to another player",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}
			setID, err := parseID(args[1], "set id")
			if err != nil {
				return err
			}
			target, err := parseID(args[2], "player id")
			if err != nil {
				return err
			}

			var result response.Set
			req := request.TransferRequest{TargetPlayerID: target}
			if err := client.Post(cmd.Context(), sessionPath(id, "sets", fmt.Sprint(setID), "transfer"), req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}
