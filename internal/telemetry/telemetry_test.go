package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gameday-assistant/internal/snapshot"
	"gameday-assistant/internal/types"
)

type recordingSink struct{ events []Event }

func (r *recordingSink) Emit(_ context.Context, ev Event) { r.events = append(r.events, ev) }

func TestMultiFansOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	Multi{a, nil, b}.Emit(context.Background(), Event{Name: ProxySuccess})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestLoggerSinkWritesStructuredLine(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := NewLoggerSink(zap.New(core))

	s := snapshot.Build(snapshot.Fields{RouteName: "Ticket", User: &snapshot.User{Name: "Sam", Seat: "B1"}})
	fields := WithSnapshot(ActionFields(types.Action{ID: "x", Type: "ticket.flipPass", Risk: types.RiskLow}), &s)
	sink.Emit(context.Background(), Event{Name: ActionExecuted, SessionID: "s1", Fields: fields})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, ActionExecuted, entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "s1", ctx["session"])
	assert.Equal(t, "ticket.flipPass", ctx["actionType"])
	redacted, ok := ctx["snapshot"].(*snapshot.RedactedSnapshot)
	require.True(t, ok)
	assert.Equal(t, "B1", redacted.User.Seat)
}

func TestWithSnapshotNil(t *testing.T) {
	fields := WithSnapshot(nil, nil)
	assert.NotNil(t, fields)
	assert.NotContains(t, fields, "snapshot")
}

type fakeWriter struct {
	mu      sync.Mutex
	err     error
	names   []string
	started chan struct{}
	release chan struct{}
}

func (f *fakeWriter) SaveEvent(_ context.Context, name, _ string, _ map[string]any, _ time.Time) error {
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
	return f.err
}

func (f *fakeWriter) saved() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}

func TestStoreSinkLogsFailures(t *testing.T) {
	defer goleak.VerifyNone(t)
	core, logs := observer.New(zapcore.WarnLevel)
	w := &fakeWriter{err: errors.New("db down")}
	sink := NewStoreSink(w, zap.New(core))
	sink.Emit(context.Background(), Event{Name: ProxyFallback})
	sink.Close()

	assert.Equal(t, []string{ProxyFallback}, w.saved())
	assert.Equal(t, 1, logs.FilterMessage("telemetry event dropped").Len())
}

func TestStoreSinkDoesNotWaitOnWriter(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := &fakeWriter{release: make(chan struct{})}
	sink := NewStoreSink(w, zap.NewNop())

	start := time.Now()
	for _, name := range []string{ProxySuccess, ActionExecuted, ActionExecuted, ActionExecuted} {
		sink.Emit(context.Background(), Event{Name: name})
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Empty(t, w.saved())

	close(w.release)
	sink.Close()
	assert.Equal(t, []string{ProxySuccess, ActionExecuted, ActionExecuted, ActionExecuted}, w.saved())
}

func TestStoreSinkDropsWhenQueueIsFull(t *testing.T) {
	defer goleak.VerifyNone(t)
	core, logs := observer.New(zapcore.WarnLevel)
	w := &fakeWriter{started: make(chan struct{}, 1), release: make(chan struct{})}
	sink := newStoreSink(w, zap.New(core), 1)

	sink.Emit(context.Background(), Event{Name: "first"})
	<-w.started
	sink.Emit(context.Background(), Event{Name: "second"})
	sink.Emit(context.Background(), Event{Name: "third"})
	assert.Equal(t, 1, logs.FilterMessage("telemetry queue full, event dropped").Len())

	close(w.release)
	sink.Close()
	assert.Equal(t, []string{"first", "second"}, w.saved())

	// closed sinks ignore further events
	sink.Emit(context.Background(), Event{Name: "late"})
	sink.Close()
	assert.Len(t, w.saved(), 2)
}
