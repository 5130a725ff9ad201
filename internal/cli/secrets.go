package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/sleuthgame-go/internal/api/request"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
)

func newSecretsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Secret card commands",
	}

	cmd.AddCommand(newSecretsListCmd())
	cmd.AddCommand(newSecretsFlipCmd("reveal", "Turn a secret face up"))
	cmd.AddCommand(newSecretsFlipCmd("hide", "Turn a secret face down"))
	cmd.AddCommand(newSecretsTransferCmd())

	return cmd
}

func newSecretsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <session> <player>",
		Short: "Show the secrets a player holds, including hidden roles",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, pid, err := sessionAndPlayerArgs(args)
			if err != nil {
				return err
			}

			var result []response.Secret
			if err := client.Get(cmd.Context(), playerPath(id, pid, "secrets"), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newSecretsFlipCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <session> <secret>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}
			secretID, err := parseID(args[1], "secret id")
			if err != nil {
				return err
			}

			var result response.Secret
			path := sessionPath(id, "secrets", fmt.Sprint(secretID), action)
			if err := client.Post(cmd.Context(), path, nil, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newSecretsTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <session> <secret> <target-player>",
		Short: "Give a secret to another player",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}
			secretID, err := parseID(args[1], "secret id")
			if err != nil {
				return err
			}
			target, err := parseID(args[2], "player id")
			if err != nil {
				return err
			}

			var result response.Secret
			req := request.TransferRequest{TargetPlayerID: target}
			if err := client.Post(cmd.Context(), sessionPath(id, "secrets", fmt.Sprint(secretID), "transfer"), req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}
