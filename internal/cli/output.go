package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/sleuthgame-go/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(w io.Writer, format string) *Output {
	return &Output{format: format, w: w}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		o.println(string(data))
	} else {
		o.println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) println(args ...any) {
	_, _ = fmt.Fprintln(o.w, args...)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Session:
		o.printSession(v)
	case []response.SessionSummary:
		o.printSummaries(v)
	case response.JoinResponse:
		o.printf("Joined as %s (%d)\n\n", v.Player.Name, v.Player.ID)
		o.printSession(v.Session)
	case response.LeaveResponse:
		if v.Deleted {
			o.println("Left session; the session was deleted")
		} else if v.Session != nil {
			o.println("Left session")
			o.printSession(*v.Session)
		}
	case response.FinishResponse:
		if v.AlreadyFinished {
			o.println("Session was already finished")
		}
		o.printSession(v.Session)
	case response.Card:
		o.printf("%s\n", cardLine(v))
	case []response.Card:
		o.printCards(v)
	case response.DrawResponse:
		o.printDraw(v)
	case response.Secret:
		o.printf("%s\n", secretLine(v))
	case []response.Secret:
		if len(v) == 0 {
			o.println("No secrets")
		}
		for _, s := range v {
			o.printf("  %s\n", secretLine(s))
		}
	case response.Set:
		o.printf("%s\n", setLine(v))
	case []response.Set:
		if len(v) == 0 {
			o.println("No sets")
		}
		for _, s := range v {
			o.printf("  %s\n", setLine(s))
		}
	case response.TurnResponse:
		o.printf("Turn %d: %s (%d)\n", v.CurrentTurn, v.PlayerName, v.PlayerID)
	case response.Outcome:
		o.printOutcome(v)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func cardLine(c response.Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s [%s]", c.ID, c.Name, c.Kind)
	if c.SetSize > 0 {
		fmt.Fprintf(&b, " set of %d", c.SetSize)
	}
	if c.IsWildcard {
		b.WriteString(" wildcard")
	}
	return b.String()
}

func secretLine(s response.Secret) string {
	state := "hidden"
	if s.IsRevealed {
		state = "revealed"
	}
	line := fmt.Sprintf("#%d held by %d, %s", s.ID, s.OwnerID, state)
	if s.Role != "" {
		line += ": " + s.Role
	}
	return line
}

func setLine(s response.Set) string {
	ids := make([]string, 0, len(s.CardIDs))
	for _, id := range s.CardIDs {
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf("#%d %s owned by %d, cards %s", s.ID, s.Name, s.OwnerID, strings.Join(ids, ","))
}

func (o *Output) printCards(cards []response.Card) {
	if len(cards) == 0 {
		o.println("No cards")
		return
	}
	for _, c := range cards {
		o.printf("  %s\n", cardLine(c))
	}
}

func (o *Output) printSummaries(sessions []response.SessionSummary) {
	if len(sessions) == 0 {
		o.println("No sessions")
		return
	}
	for _, s := range sessions {
		o.printf("%d  %-24s %-16s %d/%d players\n", s.ID, s.Name, s.Phase, s.PlayerCount, s.MaxPlayers)
	}
}

func (o *Output) printSession(s response.Session) {
	o.printf("Session: %s (%d)\n", s.Name, s.ID)
	o.printf("Phase: %s\n", s.Phase)
	if s.FinishReason != "" {
		o.printf("Finish Reason: %s\n", s.FinishReason)
	}
	o.printf("Players: %d (min %d, max %d)\n", len(s.Players), s.MinPlayers, s.MaxPlayers)
	for _, p := range s.Players {
		hostStr := ""
		if p.IsHost {
			hostStr = " [host]"
		}
		turnStr := ""
		if p.TurnOrder > 0 && p.TurnOrder == s.CurrentTurn {
			turnStr = " <- turn"
		}
		o.printf("  - %s (%d)%s: %d cards, %d secrets%s\n",
			p.Name, p.ID, hostStr, p.HandSize, p.SecretCount, turnStr)
	}

	if s.Phase != "in_progress" && s.Phase != "finished" {
		return
	}

	o.printf("Deck: %d cards remaining\n", s.CardsRemaining)
	if len(s.DraftPile) > 0 {
		o.println("\nDraft Pile:")
		o.printCards(s.DraftPile)
	}
	if len(s.RecentDiscards) > 0 {
		o.println("\nRecent Discards:")
		o.printCards(s.RecentDiscards)
	}
	if len(s.Sets) > 0 {
		o.println("\nSets:")
		for _, set := range s.Sets {
			o.printf("  %s\n", setLine(set))
		}
	}
	if len(s.RevealedSecrets) > 0 {
		o.println("\nRevealed Secrets:")
		for _, secret := range s.RevealedSecrets {
			o.printf("  %s\n", secretLine(secret))
		}
	}
}

func (o *Output) printDraw(d response.DrawResponse) {
	if d.Card != nil {
		o.printf("Drew %s\n", cardLine(*d.Card))
	}
	if d.Replacement != nil {
		o.printf("Draft pile refilled with %s\n", cardLine(*d.Replacement))
	}
	if d.DeckExhausted {
		o.println("The deck is exhausted")
	}
	o.printf("Phase: %s\n", d.Phase)
}

func (o *Output) printOutcome(out response.Outcome) {
	o.printf("%s: %s\n", out.Event, out.Result)
	if len(out.Cards) > 0 {
		o.printCards(out.Cards)
	}
	if out.Secret != nil {
		o.printf("Secret %s\n", secretLine(*out.Secret))
	}
	if out.Set != nil {
		o.printf("Set %s\n", setLine(*out.Set))
	}
	o.printf("Phase: %s\n", out.Session.Phase)
}
