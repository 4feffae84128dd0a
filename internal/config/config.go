package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// Remote assistant proxy consumed by each session's assistant
	ProxyURL     string
	ProxyTimeout time.Duration
	// Assistant behaviour
	AssistantEnabled    bool
	ProactiveEnabled    bool
	ProactiveCooldown   time.Duration
	FlipDelay           time.Duration
	HistoryDisplayLimit int
	SessionIdleTTL      time.Duration
	// OpenAI backing the proxy endpoint; empty key means mock replies only
	OpenAIAPIKey  string
	Model         string
	OpenAIBaseURL string
	PromptPath    string
	// Database
	DatabaseURL   string
	MigrationsDir string
	LogLevel      string
}

func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:                getEnvDefault("PORT", "8787"),
		AllowedOrigin:       getEnvDefault("ALLOWED_ORIGIN", "*"),
		ProxyURL:            os.Getenv("ASSISTANT_PROXY_URL"),
		ProxyTimeout:        getEnvDurationDefault("ASSISTANT_PROXY_TIMEOUT", 15*time.Second),
		AssistantEnabled:    getEnvBoolDefault("ASSISTANT_ENABLED", true),
		ProactiveEnabled:    getEnvBoolDefault("PROACTIVE_ENABLED", true),
		ProactiveCooldown:   getEnvDurationDefault("PROACTIVE_COOLDOWN", 10*time.Minute),
		FlipDelay:           getEnvDurationDefault("FLIP_DELAY", 350*time.Millisecond),
		HistoryDisplayLimit: getEnvIntDefault("HISTORY_DISPLAY_LIMIT", 30),
		SessionIdleTTL:      getEnvDurationDefault("SESSION_IDLE_TTL", 2*time.Hour),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		Model:               getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),
		PromptPath:          getEnvDefault("PROMPT_PATH", "./prompts/assistant.yaml"),
		DatabaseURL:         os.Getenv("DB_URL"),
		MigrationsDir:       getEnvDefault("MIGRATIONS_DIR", "./migrations"),
		LogLevel:            getEnvDefault("LOG_LEVEL", "info"),
	}
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
