package responder

import (
	"context"

	"gameday-assistant/internal/snapshot"
	"gameday-assistant/internal/types"
)

// Request is one turn's input plus the app state it was made in.
// SystemPrompt carries extra instructions from a proxy caller.
type Request struct {
	Input        types.Input
	Snapshot     snapshot.AppSnapshot
	SystemPrompt string
}

// Responder produces an assistant response for a request.
type Responder interface {
	Respond(ctx context.Context, req Request) (types.AssistantResponse, error)
}

// wireResponse is the lenient shape accepted from backends; every field may
// be missing or null.
type wireResponse struct {
	Message *string        `json:"message"`
	Cards   []types.Card   `json:"cards"`
	Actions []types.Action `json:"actions"`
}

func (w wireResponse) shaped() types.AssistantResponse {
	r := types.AssistantResponse{Cards: w.Cards, Actions: w.Actions}
	if w.Message != nil {
		r.Message = *w.Message
	}
	return r.Shaped()
}
