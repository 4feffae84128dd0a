package telemetry

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultQueueSize is how many events a StoreSink buffers before dropping.
const DefaultQueueSize = 256

// EventWriter persists telemetry events.
type EventWriter interface {
	SaveEvent(ctx context.Context, name, sessionID string, fields map[string]any, at time.Time) error
}

// StoreSink queues events and writes them through an EventWriter on a single
// background worker. Emit never waits on the writer: a full queue or a failed
// write drops the event with a warning.
type StoreSink struct {
	writer  EventWriter
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

func NewStoreSink(w EventWriter, logger *zap.Logger) *StoreSink {
	return newStoreSink(w, logger, DefaultQueueSize)
}

func newStoreSink(w EventWriter, logger *zap.Logger, size int) *StoreSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &StoreSink{
		writer:  w,
		logger:  logger,
		timeout: 2 * time.Second,
		queue:   make(chan Event, size),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *StoreSink) Emit(_ context.Context, ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- ev:
	default:
		s.logger.Warn("telemetry queue full, event dropped", zap.String("event", ev.Name))
	}
}

// Close stops accepting events and waits for the queued ones to be written.
func (s *StoreSink) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	<-s.done
}

func (s *StoreSink) run() {
	defer close(s.done)
	for ev := range s.queue {
		s.write(ev)
	}
}

func (s *StoreSink) write(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.writer.SaveEvent(ctx, ev.Name, ev.SessionID, ev.Fields, ev.At); err != nil {
		s.logger.Warn("telemetry event dropped", zap.String("event", ev.Name), zap.Error(err))
	}
}
