package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gameday-assistant/internal/db"
)

// EventStore persists assistant telemetry events in PostgreSQL.
type EventStore struct {
	db *db.DB
}

func NewEventStore(database *db.DB) *EventStore {
	return &EventStore{db: database}
}

// StoredEvent is one row of assistant_events.
type StoredEvent struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	SessionID string         `json:"sessionId"`
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"createdAt"`
}

// SaveEvent inserts one event. Fields are stored as JSON.
func (es *EventStore) SaveEvent(ctx context.Context, name, sessionID string, fields map[string]any, at time.Time) error {
	if name == "" {
		return fmt.Errorf("event name is required")
	}
	if fields == nil {
		fields = map[string]any{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode event fields: %w", err)
	}
	if at.IsZero() {
		at = time.Now()
	}

	query := `
		INSERT INTO assistant_events (name, session_id, fields, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := es.db.ExecContext(ctx, query, name, sessionID, raw, at.UTC()); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

// RecentEvents returns the newest events for a session, newest first.
func (es *EventStore) RecentEvents(ctx context.Context, sessionID string, limit int) ([]StoredEvent, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, name, session_id, fields, created_at
		FROM assistant_events
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := es.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []StoredEvent{}
	for rows.Next() {
		var ev StoredEvent
		var raw []byte
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.SessionID, &raw, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &ev.Fields); err != nil {
				return nil, fmt.Errorf("failed to decode event %d fields: %w", ev.ID, err)
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// DeleteSessionEvents removes every event recorded for a session.
func (es *EventStore) DeleteSessionEvents(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	if _, err := es.db.ExecContext(ctx, `DELETE FROM assistant_events WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	return nil
}
