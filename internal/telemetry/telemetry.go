package telemetry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gameday-assistant/internal/snapshot"
	"gameday-assistant/internal/types"
)

// Event names.
const (
	ActionBlocked       = "action_blocked"
	ActionExecuted      = "action_executed"
	ProxySuccess        = "proxy_success"
	ProxyFallback       = "proxy_fallback"
	ProactiveSuggestion = "proactive_suggestion"
)

// Event is a fire-and-forget telemetry record. Fields only ever hold
// redacted data.
type Event struct {
	Name      string
	SessionID string
	At        time.Time
	Fields    map[string]any
}

// Sink receives events. Implementations must not block the caller for long
// and never report failures back.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// Nop discards events.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}

// Multi fans events out to every sink.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, ev Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ctx, ev)
		}
	}
}

// LoggerSink writes events as structured log lines.
type LoggerSink struct {
	logger *zap.Logger
}

func NewLoggerSink(logger *zap.Logger) *LoggerSink {
	return &LoggerSink{logger: logger.Named("telemetry")}
}

func (s *LoggerSink) Emit(_ context.Context, ev Event) {
	fields := make([]zap.Field, 0, len(ev.Fields)+2)
	fields = append(fields, zap.String("session", ev.SessionID), zap.Time("at", ev.At))
	for k, v := range ev.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	s.logger.Info(ev.Name, fields...)
}

// ActionFields describes an action without its payload.
func ActionFields(a types.Action) map[string]any {
	return map[string]any{
		"actionId":             a.ID,
		"actionType":           a.Type,
		"risk":                 string(a.Risk),
		"requiresConfirmation": a.NeedsConfirmation(),
	}
}

// WithSnapshot adds the redacted form of s to fields.
func WithSnapshot(fields map[string]any, s *snapshot.AppSnapshot) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}
	if r := snapshot.RedactForLogs(s); r != nil {
		fields["snapshot"] = r
	}
	return fields
}
