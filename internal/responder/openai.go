package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"gameday-assistant/internal/command"
	"gameday-assistant/internal/snapshot"
	"gameday-assistant/internal/types"
)

// ChatCompleter is the subset of the OpenAI client the responder uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIResponder produces responses with a chat completion model.
type OpenAIResponder struct {
	spec    PromptSpec
	client  ChatCompleter
	model   string
	timeout time.Duration
}

func NewOpenAIResponder(spec PromptSpec, client ChatCompleter, model string) *OpenAIResponder {
	return &OpenAIResponder{spec: spec, client: client, model: model, timeout: 20 * time.Second}
}

// NewOpenAIClient builds a go-openai client, honouring a custom base URL.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (r *OpenAIResponder) Respond(ctx context.Context, req Request) (types.AssistantResponse, error) {
	prompt, err := r.buildPrompt(req)
	if err != nil {
		return types.AssistantResponse{}, err
	}
	temp := r.spec.Style.Temperature
	if temp <= 0 {
		temp = 0.1
	}
	maxTok := r.spec.Style.MaxTokens
	if maxTok <= 0 {
		maxTok = 300
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: temp,
		MaxTokens:   maxTok,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: userContent(req.Input)},
		},
	})
	if err != nil {
		return types.AssistantResponse{}, err
	}
	if len(resp.Choices) == 0 {
		return types.AssistantResponse{}, fmt.Errorf("no choices")
	}
	return parseModelReply(resp.Choices[0].Message.Content)
}

func (r *OpenAIResponder) buildPrompt(req Request) (string, error) {
	var b strings.Builder
	b.WriteString(r.spec.System)
	if extra := strings.TrimSpace(req.SystemPrompt); extra != "" && extra != strings.TrimSpace(r.spec.System) {
		b.WriteString("\n\nCaller instructions:\n")
		b.WriteString(extra)
	}
	b.WriteString("\n\nCommands:\n")
	for _, c := range command.Commands() {
		fmt.Fprintf(&b, "- %s: %s", c.Type, c.Description)
		if len(c.Required) > 0 {
			fmt.Fprintf(&b, " (required: %s)", strings.Join(c.Required, ", "))
		}
		if len(c.Optional) > 0 {
			fmt.Fprintf(&b, " (optional: %s)", strings.Join(c.Optional, ", "))
		}
		b.WriteString("\n")
	}
	snap, err := json.Marshal(snapshotForModel(req.Snapshot))
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	b.WriteString("\nApp state:\n")
	b.Write(snap)
	b.WriteString("\n\nOutput ONLY the JSON object.\n")
	return b.String(), nil
}

// snapshotForModel keeps what the model needs to ground its answer.
func snapshotForModel(s snapshot.AppSnapshot) map[string]any {
	return map[string]any{
		"routeName":    s.RouteName,
		"screenHint":   s.ScreenHint,
		"isGameDay":    s.IsGameDay,
		"gameDayPhase": s.GameDayPhase,
		"currentGame":  s.CurrentGame,
		"nextGame":     s.NextGame,
		"user":         map[string]any{"name": s.User.Name, "seat": s.User.Seat, "parking": s.User.Parking},
	}
}

func userContent(in types.Input) string {
	in = in.Normalized()
	text := strings.TrimSpace(in.Text)
	switch in.Mode {
	case types.ModeVoice:
		return "[voice] " + text
	case types.ModeImage:
		if text == "" {
			return "[image] The user shared a photo."
		}
		return "[image] " + text
	}
	return text
}

// parseModelReply decodes the reply, falling back to the outermost {...}
// span when the model wraps the JSON in prose.
func parseModelReply(raw string) (types.AssistantResponse, error) {
	var out wireResponse
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		first := strings.Index(raw, "{")
		last := strings.LastIndex(raw, "}")
		if first < 0 || last <= first {
			return types.AssistantResponse{}, fmt.Errorf("model reply is not JSON: %w", err)
		}
		if err2 := json.Unmarshal([]byte(raw[first:last+1]), &out); err2 != nil {
			return types.AssistantResponse{}, fmt.Errorf("model reply is not JSON: %w", err)
		}
	}
	return out.shaped(), nil
}
