package types

import "encoding/json"

// ProxyRequest is the body POSTed to the assistant proxy endpoint.
type ProxyRequest struct {
	SystemPrompt string          `json:"systemPrompt"`
	Input        Input           `json:"input"`
	Snapshot     json.RawMessage `json:"snapshot"`
}

// InputRequest submits one turn for the caller's session.
type InputRequest struct {
	Input
}

// TurnResponse is returned by the session input endpoint.
type TurnResponse struct {
	SessionID string             `json:"sessionId"`
	Response  *AssistantResponse `json:"response,omitempty"`
	State     any                `json:"state"`
}

// ActionRequest asks the session assistant to run one action chip.
type ActionRequest struct {
	Action Action `json:"action"`
}

// ActionResponse reports a user-triggered action outcome.
type ActionResponse struct {
	OK      bool   `json:"ok"`
	Blocked bool   `json:"blocked,omitempty"`
	Error   string `json:"error,omitempty"`
	Action  Action `json:"action"`
}

// RouteRequest simulates a navigation performed by the UI.
type RouteRequest struct {
	Route  string         `json:"route"`
	Params map[string]any `json:"params,omitempty"`
}

// ProactiveRequest toggles proactive suggestions.
type ProactiveRequest struct {
	Enabled bool `json:"enabled"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// VisibilityRequest opens or closes the assistant panel.
type VisibilityRequest struct {
	Visible bool `json:"visible"`
}
