package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "ASSISTANT_PROXY_URL", "ASSISTANT_PROXY_TIMEOUT", "ASSISTANT_ENABLED",
		"PROACTIVE_ENABLED", "PROACTIVE_COOLDOWN", "FLIP_DELAY", "HISTORY_DISPLAY_LIMIT",
		"OPENAI_MODEL", "PROMPT_PATH", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8787", cfg.Port)
	assert.Empty(t, cfg.ProxyURL)
	assert.Equal(t, 15*time.Second, cfg.ProxyTimeout)
	assert.True(t, cfg.AssistantEnabled)
	assert.True(t, cfg.ProactiveEnabled)
	assert.Equal(t, 10*time.Minute, cfg.ProactiveCooldown)
	assert.Equal(t, 350*time.Millisecond, cfg.FlipDelay)
	assert.Equal(t, 30, cfg.HistoryDisplayLimit)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, "./prompts/assistant.yaml", cfg.PromptPath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ASSISTANT_PROXY_URL", "http://proxy.local/assistant/respond")
	t.Setenv("ASSISTANT_PROXY_TIMEOUT", "3s")
	t.Setenv("PROACTIVE_ENABLED", "off")
	t.Setenv("PROACTIVE_COOLDOWN", "1m")
	t.Setenv("HISTORY_DISPLAY_LIMIT", "5")
	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http://proxy.local/assistant/respond", cfg.ProxyURL)
	assert.Equal(t, 3*time.Second, cfg.ProxyTimeout)
	assert.False(t, cfg.ProactiveEnabled)
	assert.Equal(t, time.Minute, cfg.ProactiveCooldown)
	assert.Equal(t, 5, cfg.HistoryDisplayLimit)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("FLIP_DELAY", "soon")
	t.Setenv("HISTORY_DISPLAY_LIMIT", "many")
	t.Setenv("ASSISTANT_ENABLED", "maybe")
	assert.Equal(t, 350*time.Millisecond, getEnvDurationDefault("FLIP_DELAY", 350*time.Millisecond))
	assert.Equal(t, 30, getEnvIntDefault("HISTORY_DISPLAY_LIMIT", 30))
	assert.True(t, getEnvBoolDefault("ASSISTANT_ENABLED", true))
}
