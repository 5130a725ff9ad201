package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/sleuthgame-go/internal/api/request"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
	"github.com/mcoot/sleuthgame-go/internal/model"
)

func newTurnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "turn",
		Short: "Turn order commands",
	}

	cmd.AddCommand(newTurnGetCmd())
	cmd.AddCommand(newTurnAdvanceCmd())

	return cmd
}

func newTurnGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session>",
		Short: "Show whose turn it is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}

			var result response.TurnResponse
			if err := client.Get(cmd.Context(), sessionPath(id, "turn"), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newTurnAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <session>",
		Short: "Pass the turn to the next player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}

			var result response.TurnResponse
			if err := client.Post(cmd.Context(), sessionPath(id, "turn", "advance"), nil, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

// eventSlug turns an event name into its command line form,
// e.g. "Delay the murderer's escape" becomes "delay-the-murderers-escape"
func eventSlug(name model.EventName) string {
	s := strings.ToLower(string(name))
	s = strings.ReplaceAll(s, "'", "")
	return strings.ReplaceAll(s, " ", "-")
}

// resolveEvent accepts an event's display name or its slug
func resolveEvent(arg string) (model.EventName, error) {
	for _, entry := range model.EventRoster {
		if strings.EqualFold(arg, string(entry.Name)) || arg == eventSlug(entry.Name) {
			return entry.Name, nil
		}
	}
	return "", fmt.Errorf("unknown event %q", arg)
}

func eventSlugs() string {
	slugs := make([]string, 0, len(model.EventRoster))
	for _, entry := range model.EventRoster {
		slugs = append(slugs, "  "+eventSlug(entry.Name))
	}
	return strings.Join(slugs, "\n")
}

func newEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Event card commands",
	}

	cmd.AddCommand(newEventPlayCmd())

	return cmd
}

func newEventPlayCmd() *cobra.Command {
	var (
		req         request.PlayEventRequest
		targetEvent string
		cardIDs     []int64
	)

	cmd := &cobra.Command{
		Use:   "play <session> <event>",
		Short: "Resolve an event card's effect",
		Long: `Resolve an event card's effect for a player.

The event may be given by name or as one of:
` + eventSlugs() + `

Only the flags the event uses are sent to the server.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}
			event, err := resolveEvent(args[1])
			if err != nil {
				return err
			}
			req.Event = string(event)
			if targetEvent != "" {
				te, err := resolveEvent(targetEvent)
				if err != nil {
					return err
				}
				req.TargetEvent = string(te)
			}
			req.CardIDs = cardIDs

			var result response.Outcome
			if err := client.Post(cmd.Context(), sessionPath(id, "events"), req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&req.PlayerID, "player", 0, "Player playing the event (required)")
	cmd.Flags().Int64Var(&req.EventCardID, "card", 0, "Event card played from hand; it is discarded with the effect")
	cmd.Flags().Int64Var(&req.TargetPlayerID, "target", 0, "Target player")
	cmd.Flags().StringVar(&targetEvent, "target-event", "", "Event card kind to clear (cards-off-the-table)")
	cmd.Flags().Int64Var(&req.CardID, "discard", 0, "Discarded card to recover (look-into-the-ashes)")
	cmd.Flags().Int64SliceVar(&cardIDs, "discards", nil, "Discarded cards to return to the deck (delay-the-murderers-escape)")
	cmd.Flags().Int64Var(&req.SecretID, "secret", 0, "Revealed secret to hide again (and-then-there-was-one-more)")
	cmd.Flags().Int64Var(&req.SetID, "set", 0, "Set to steal (another-victim)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newTradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Card trade commands",
	}

	cmd.AddCommand(newTradeFinalizeCmd())

	return cmd
}

func newTradeFinalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <session> <from-player> <from-card> <to-player> <to-card>",
		Short: "Swap the chosen cards between two players selected for a trade",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, len(args))
			names := []string{"session id", "player id", "card id", "player id", "card id"}
			for i, arg := range args {
				id, err := parseID(arg, names[i])
				if err != nil {
					return err
				}
				ids[i] = id
			}

			var result response.Session
			req := request.FinalizeTradeRequest{
				FromPlayerID: ids[1],
				FromCardID:   ids[2],
				ToPlayerID:   ids[3],
				ToCardID:     ids[4],
			}
			if err := client.Post(cmd.Context(), sessionPath(ids[0], "trades", "finalize"), req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}
