package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/ballotworks/syncrun/internal/political"
)

// Store persists toggle states and the coalition event log, the only state
// the system keeps across restarts.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS toggle_states (
	topic_id   TEXT NOT NULL,
	toggle_id  TEXT NOT NULL,
	state      BOOLEAN NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (topic_id, toggle_id)
);

CREATE TABLE IF NOT EXISTS coalition_events (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	ts         TIMESTAMPTZ NOT NULL,
	party      TEXT NOT NULL,
	seat_delta INTEGER NOT NULL,
	reason     TEXT NOT NULL,
	response   TEXT NOT NULL
);`

// Connect opens the database, verifies connectivity and ensures the schema.
func Connect(ctx context.Context, dsn string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db, timeout: timeout}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// SaveToggle upserts one toggle state.
func (s *Store) SaveToggle(ctx context.Context, topicID, toggleID string, state bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		INSERT INTO toggle_states (topic_id, toggle_id, state, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (topic_id, toggle_id) DO UPDATE SET
			state = EXCLUDED.state,
			updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, topicID, toggleID, state); err != nil {
		return fmt.Errorf("save toggle %s/%s: %w", topicID, toggleID, err)
	}
	return nil
}

// LoadToggles reads every persisted toggle state.
func (s *Store) LoadToggles(ctx context.Context) (map[string]map[string]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryxContext(ctx, `SELECT topic_id, toggle_id, state FROM toggle_states`)
	if err != nil {
		return nil, fmt.Errorf("load toggles: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[string]bool)
	for rows.Next() {
		var topicID, toggleID string
		var state bool
		if err := rows.Scan(&topicID, &toggleID, &state); err != nil {
			return nil, fmt.Errorf("scan toggle row: %w", err)
		}
		if out[topicID] == nil {
			out[topicID] = make(map[string]bool)
		}
		out[topicID][toggleID] = state
	}
	return out, rows.Err()
}

// AppendEvent inserts one audit-log record. Records are immutable: there is
// no update path.
func (s *Store) AppendEvent(ctx context.Context, ev political.EventRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		INSERT INTO coalition_events (id, kind, ts, party, seat_delta, reason, response)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.ExecContext(ctx, query,
		ev.ID, string(ev.Kind), ev.Timestamp, ev.Party, ev.SeatDelta, ev.Reason, ev.Response)
	if err != nil {
		return fmt.Errorf("append coalition event: %w", err)
	}
	return nil
}

// ListEvents returns the most recent events, newest first.
func (s *Store) ListEvents(ctx context.Context, limit int) ([]political.EventRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, kind, ts, party, seat_delta, reason, response
		FROM coalition_events
		ORDER BY ts DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list coalition events: %w", err)
	}
	defer rows.Close()

	var out []political.EventRecord
	for rows.Next() {
		var ev political.EventRecord
		var kind string
		if err := rows.Scan(&ev.ID, &kind, &ev.Timestamp, &ev.Party, &ev.SeatDelta, &ev.Reason, &ev.Response); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		ev.Kind = political.EventKind(kind)
		out = append(out, ev)
	}
	return out, rows.Err()
}
