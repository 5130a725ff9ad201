package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/sleuthgame-go/internal/api/request"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
)

func newCardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Hand, draft pile and discard pile commands",
	}

	cmd.AddCommand(newCardsHandCmd())
	cmd.AddCommand(newCardsPickUpCmd())
	cmd.AddCommand(newCardsTakeCmd())
	cmd.AddCommand(newCardsDiscardCmd())
	cmd.AddCommand(newCardsDraftCmd())
	cmd.AddCommand(newCardsReplenishCmd())
	cmd.AddCommand(newCardsDiscardsCmd())

	return cmd
}

// sessionAndPlayerArgs parses the leading <session> <player> arguments
func sessionAndPlayerArgs(args []string) (int64, int64, error) {
	id, err := parseID(args[0], "session id")
	if err != nil {
		return 0, 0, err
	}
	pid, err := parseID(args[1], "player id")
	if err != nil {
		return 0, 0, err
	}
	return id, pid, nil
}

func playerPath(id, pid int64, parts ...string) string {
	return sessionPath(id, append([]string{"players", fmt.Sprint(pid)}, parts...)...)
}

func newCardsHandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hand <session> <player>",
		Short: "Show a player's hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, pid, err := sessionAndPlayerArgs(args)
			if err != nil {
				return err
			}

			var result []response.Card
			if err := client.Get(cmd.Context(), playerPath(id, pid, "hand"), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newCardsPickUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pickup <session> <player>",
		Short: "Draw a card from the deck",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, pid, err := sessionAndPlayerArgs(args)
			if err != nil {
				return err
			}

			var result response.DrawResponse
			if err := client.Post(cmd.Context(), playerPath(id, pid, "hand", "pickup"), nil, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newCardsTakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "take <session> <player> <card>",
		Short: "Take a card from the draft pile",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, pid, err := sessionAndPlayerArgs(args)
			if err != nil {
				return err
			}
			cardID, err := parseID(args[2], "card id")
			if err != nil {
				return err
			}

			var result response.DrawResponse
			req := request.CardRequest{CardID: cardID}
			if err := client.Post(cmd.Context(), playerPath(id, pid, "hand", "draft"), req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newCardsDiscardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard <session> <player> [card]",
		Short: "Discard a card, or the first card in hand when none is given",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, pid, err := sessionAndPlayerArgs(args)
			if err != nil {
				return err
			}
			var req request.CardRequest
			if len(args) == 3 {
				if req.CardID, err = parseID(args[2], "card id"); err != nil {
					return err
				}
			}

			var result response.Card
			if err := client.Post(cmd.Context(), playerPath(id, pid, "hand", "discard"), req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newCardsDraftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft <session>",
		Short: "Show the face-up draft pile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}

			var result []response.Card
			if err := client.Get(cmd.Context(), sessionPath(id, "draft"), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newCardsReplenishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replenish <session>",
		Short: "Add one deck card to the draft pile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}

			var result *response.Card
			if err := client.Post(cmd.Context(), sessionPath(id, "draft", "replenish"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			if result == nil {
				out.PrintMessage("The deck is empty")
				return nil
			}
			out.Print(*result)
			return nil
		},
	}
}

func newCardsDiscardsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "discards <session>",
		Short: "Show the most recent discards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}

			var result []response.Card
			path := fmt.Sprintf("%s?limit=%d", sessionPath(id, "discards"), limit)
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "Number of discards to show")

	return cmd
}
