package responder

import (
	"context"

	"gameday-assistant/internal/command"
	"gameday-assistant/internal/snapshot"
	"gameday-assistant/internal/types"
)

// MockResponder answers offline and deterministically from keyword rules.
type MockResponder struct{}

func NewMockResponder() MockResponder { return MockResponder{} }

func (MockResponder) Respond(_ context.Context, req Request) (types.AssistantResponse, error) {
	in := req.Input.Normalized()
	actions := command.InferFromText(in.Text)

	msg := modeNote(in.Mode)
	if len(actions) > 0 {
		msg += "Here's what I can do right now."
	} else {
		msg += "I can help with parking, tickets, news, the shop and game day."
	}
	return types.AssistantResponse{
		Message: msg,
		Cards:   []types.Card{contextCard(req.Snapshot)},
		Actions: actions,
	}.Shaped(), nil
}

func modeNote(m types.Mode) string {
	switch m {
	case types.ModeVoice:
		return "Got your voice note. "
	case types.ModeImage:
		return "Thanks for the photo. "
	}
	return ""
}

func contextCard(s snapshot.AppSnapshot) types.Card {
	switch s.RouteName {
	case "Dashboard":
		body := "Check the countdown, then ask me to start your game day journey."
		if s.NextGame != nil {
			body = "Next up: " + s.NextGame.Opponent + " on " + s.NextGame.Date + "."
		}
		return types.NewCard(types.CardContext, "On your dashboard", body)
	case "Ticket":
		body := "Ask me to flip your pass to show the QR code at the gate."
		if s.User.Seat != "" {
			body = "Seat " + s.User.Seat + ". " + body
		}
		return types.NewCard(types.CardContext, "Your ticket", body)
	case "News":
		return types.NewCard(types.CardContext, "Club news", "I can filter to Exclusive stories or Interviews.")
	case "Shop":
		return types.NewCard(types.CardContext, "Club shop", "Looking for a jersey? I can jump to that category.")
	}
	return types.NewCard(types.CardContext, "Game day assistant", s.ScreenHint)
}
