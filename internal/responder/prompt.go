package responder

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// PromptSpec is the assistant prompt configuration kept in prompts/assistant.yaml.
type PromptSpec struct {
	System string `yaml:"system"`
	Style  struct {
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"style"`
}

const defaultSystemPrompt = `You are the game day assistant inside a football club fan app.
Reply with a single JSON object: {"message": string, "cards": [{"kind": "context"|"tip"|"game"|"alert", "data": {"title": string, "body": string}}], "actions": [{"type": string, "payload": object}]}.
Only use action types from the provided command list. Keep messages short and friendly.`

// DefaultPromptSpec is used when no prompt file exists.
func DefaultPromptSpec() PromptSpec {
	var p PromptSpec
	p.System = defaultSystemPrompt
	p.Style.Temperature = 0.2
	p.Style.MaxTokens = 400
	return p
}

// LoadPromptSpec reads the YAML prompt at path. A missing file yields the
// default spec; an unreadable or invalid one is an error.
func LoadPromptSpec(path string) (PromptSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultPromptSpec(), nil
		}
		return PromptSpec{}, err
	}
	spec := DefaultPromptSpec()
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return PromptSpec{}, err
	}
	if spec.System == "" {
		spec.System = defaultSystemPrompt
	}
	return spec, nil
}
