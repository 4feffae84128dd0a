package types

import "time"

// Risk is the policy tier of an action.
type Risk string

const (
	RiskLow  Risk = "low"
	RiskHigh Risk = "high"
)

// Mode is how the user produced an input.
type Mode string

const (
	ModeText  Mode = "text"
	ModeVoice Mode = "voice"
	ModeImage Mode = "image"
)

// Role identifies the author of a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Action is a typed command requested by the assistant or inferred locally.
// RequiresConfirmation is a pointer so that an explicit false from a backend
// can be told apart from an absent field.
type Action struct {
	ID                   string         `json:"id,omitempty"`
	Type                 string         `json:"type"`
	Payload              map[string]any `json:"payload"`
	Risk                 Risk           `json:"risk,omitempty"`
	RequiresConfirmation *bool          `json:"requiresConfirmation,omitempty"`
}

// NeedsConfirmation reports the confirmation flag, treating absent as false.
func (a Action) NeedsConfirmation() bool {
	return a.RequiresConfirmation != nil && *a.RequiresConfirmation
}

// PayloadString returns the payload value for key when it is a non-empty string.
func (a Action) PayloadString(key string) (string, bool) {
	v, ok := a.Payload[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Clone returns a copy that shares no mutable state with a.
func (a Action) Clone() Action {
	out := a
	if a.Payload != nil {
		out.Payload = make(map[string]any, len(a.Payload))
		for k, v := range a.Payload {
			out.Payload[k] = v
		}
	}
	if a.RequiresConfirmation != nil {
		v := *a.RequiresConfirmation
		out.RequiresConfirmation = &v
	}
	return out
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// CardKind is the closed set of card renderers.
type CardKind string

const (
	CardContext CardKind = "context"
	CardTip     CardKind = "tip"
	CardGame    CardKind = "game"
	CardAlert   CardKind = "alert"
)

// Valid reports whether k is one of the known card kinds.
func (k CardKind) Valid() bool {
	switch k {
	case CardContext, CardTip, CardGame, CardAlert:
		return true
	}
	return false
}

// Card is presentational content attached to an assistant reply. Data always
// carries title and body; other keys are renderer specific.
type Card struct {
	Kind CardKind       `json:"kind"`
	Data map[string]any `json:"data"`
}

// NewCard builds a card with the standard title/body keys.
func NewCard(kind CardKind, title, body string) Card {
	return Card{Kind: kind, Data: map[string]any{"title": title, "body": body}}
}

// Input is one user submission.
type Input struct {
	Mode     Mode   `json:"mode"`
	Text     string `json:"text"`
	AudioURI string `json:"audioUri,omitempty"`
	ImageURI string `json:"imageUri,omitempty"`
}

// Normalized returns the input with mode defaulted to text.
func (in Input) Normalized() Input {
	switch in.Mode {
	case ModeVoice, ModeImage:
	default:
		in.Mode = ModeText
	}
	return in
}

// DefaultMessage replaces an empty assistant message.
const DefaultMessage = "I'm here to help with your game day."

// AssistantResponse is what every responder produces.
type AssistantResponse struct {
	Message string   `json:"message"`
	Cards   []Card   `json:"cards"`
	Actions []Action `json:"actions"`
}

// Shaped returns r with nil slices replaced, unknown card kinds dropped and
// an empty message replaced by DefaultMessage. Actions are copied as-is;
// typeless ones are kept so the policy can classify them.
func (r AssistantResponse) Shaped() AssistantResponse {
	out := AssistantResponse{
		Message: r.Message,
		Cards:   make([]Card, 0, len(r.Cards)),
		Actions: make([]Action, 0, len(r.Actions)),
	}
	if out.Message == "" {
		out.Message = DefaultMessage
	}
	for _, c := range r.Cards {
		if !c.Kind.Valid() {
			continue
		}
		if c.Data == nil {
			c.Data = map[string]any{}
		}
		out.Cards = append(out.Cards, c)
	}
	for _, a := range r.Actions {
		out.Actions = append(out.Actions, a.Clone())
	}
	return out
}

// ConversationEntry is one turn in the visible transcript.
type ConversationEntry struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Mode      Mode      `json:"mode"`
	Text      string    `json:"text"`
	Cards     []Card    `json:"cards"`
	Actions   []Action  `json:"actions,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Proactive bool      `json:"proactive,omitempty"`
}
