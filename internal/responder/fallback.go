package responder

import (
	"context"

	"gameday-assistant/internal/types"
)

// Source names which responder produced a response.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
)

// Outcome is a response together with where it came from. PrimaryErr is set
// when the secondary had to answer.
type Outcome struct {
	Response   types.AssistantResponse
	Source     Source
	PrimaryErr error
}

// Fallback tries Primary and answers from Secondary when Primary fails or is
// not configured.
type Fallback struct {
	Primary   Responder
	Secondary Responder
}

// RespondWithSource returns an error only when the secondary fails too.
func (f Fallback) RespondWithSource(ctx context.Context, req Request) (Outcome, error) {
	var primaryErr error
	if f.Primary != nil {
		resp, err := f.Primary.Respond(ctx, req)
		if err == nil {
			return Outcome{Response: resp, Source: SourcePrimary}, nil
		}
		primaryErr = err
	}
	resp, err := f.Secondary.Respond(ctx, req)
	if err != nil {
		return Outcome{Source: SourceSecondary, PrimaryErr: primaryErr}, err
	}
	return Outcome{Response: resp, Source: SourceSecondary, PrimaryErr: primaryErr}, nil
}

func (f Fallback) Respond(ctx context.Context, req Request) (types.AssistantResponse, error) {
	out, err := f.RespondWithSource(ctx, req)
	return out.Response, err
}
