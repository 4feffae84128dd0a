package snapshot

import (
	"fmt"

	"gameday-assistant/internal/command"
	"gameday-assistant/internal/types"
)

// Suggestion is assistant-initiated content. It carries no decision about
// whether or when to show it.
type Suggestion struct {
	Message string
	Cards   []types.Card
	Actions []types.Action
}

// ProactiveSuggestion returns a suggestion for the screen the user is on.
func ProactiveSuggestion(s *AppSnapshot) *Suggestion {
	if s == nil {
		return nil
	}
	switch s.RouteName {
	case "Dashboard":
		msg := "Want me to plan your trip to the stadium?"
		body := "Your game day journey, parking and gate tips in one place."
		if s.NextGame != nil {
			venue := "away"
			if s.NextGame.IsHome {
				venue = "at home"
			}
			msg = fmt.Sprintf("Next up: %s %s. Want me to plan your trip?", s.NextGame.Opponent, venue)
			body = fmt.Sprintf("Kick-off %s.", s.NextGame.Date)
		}
		return &Suggestion{
			Message: msg,
			Cards:   []types.Card{types.NewCard(types.CardGame, "Game day planner", body)},
			Actions: []types.Action{{
				Type:    command.GameDayEnter,
				Payload: map[string]any{"intent": "journey"},
			}},
		}
	case "Ticket":
		body := "Tap below to flip your pass to the entry QR code."
		if s.User.Seat != "" {
			body = fmt.Sprintf("Seat %s. Tap below to flip your pass to the entry QR code.", s.User.Seat)
		}
		return &Suggestion{
			Message: "Heading in? I can show your QR code.",
			Cards:   []types.Card{types.NewCard(types.CardTip, "Ready to scan", body)},
			Actions: []types.Action{{
				Type:    command.TicketFlipPass,
				Payload: map[string]any{},
			}},
		}
	default:
		return &Suggestion{
			Message: "Need anything? Ask me about parking, tickets, news or the shop.",
			Cards:   []types.Card{types.NewCard(types.CardTip, "Quick help", ScreenHint(s.RouteName))},
			Actions: []types.Action{},
		}
	}
}
