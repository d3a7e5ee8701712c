package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// JournalEvent is the storage-side shape of one journaled operation.
type JournalEvent struct {
	ID         string
	Timestamp  time.Time
	EventType  string
	Actor      string
	Payload    map[string]interface{}
	Generation int64
}

// SQLiteJournalRepository persists operation events.
type SQLiteJournalRepository struct {
	db *sql.DB
}

func NewSQLiteJournalRepository(db *sql.DB) *SQLiteJournalRepository {
	return &SQLiteJournalRepository{db: db}
}

func (r *SQLiteJournalRepository) Append(ctx context.Context, event JournalEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, timestamp, event_type, actor, payload, generation)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.Timestamp, event.EventType, event.Actor,
		string(payloadBytes), event.Generation,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteJournalRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]JournalEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []JournalEvent
	for rows.Next() {
		var e JournalEvent
		var payloadStr string
		err := rows.Scan(&e.ID, &e.Timestamp, &e.EventType, &e.Actor, &payloadStr, &e.Generation)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByType returns all journaled events of one category, oldest first.
func (r *SQLiteJournalRepository) GetByType(ctx context.Context, eventType string) ([]JournalEvent, error) {
	query := `SELECT id, timestamp, event_type, actor, payload, generation FROM events WHERE event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, eventType)
}

// GetSinceGeneration returns events at or after a generation, oldest first.
func (r *SQLiteJournalRepository) GetSinceGeneration(ctx context.Context, generation int64) ([]JournalEvent, error) {
	query := `SELECT id, timestamp, event_type, actor, payload, generation FROM events WHERE generation >= ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, generation)
}

// Recent returns the newest events, newest first.
func (r *SQLiteJournalRepository) Recent(ctx context.Context, limit int) ([]JournalEvent, error) {
	query := `SELECT id, timestamp, event_type, actor, payload, generation FROM events ORDER BY timestamp DESC LIMIT ?`
	return r.getMany(ctx, query, limit)
}

// ---------------------------------------------------------
// SQLiteBoardRepository
// ---------------------------------------------------------

// BoardSnapshot is a durably stored board. The Encoded column holds the
// board in the same delimited-text format as the save files; SQLite
// stores operations and recovery state, never a second board format.
type BoardSnapshot struct {
	BoardID    string
	Encoded    string
	Generation int64
}

type SQLiteBoardRepository struct {
	db *sql.DB
}

func NewSQLiteBoardRepository(db *sql.DB) *SQLiteBoardRepository {
	return &SQLiteBoardRepository{db: db}
}

func (r *SQLiteBoardRepository) Upsert(ctx context.Context, snapshot BoardSnapshot) error {
	query := `
		INSERT INTO boards (board_id, encoded, generation, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(board_id) DO UPDATE SET
			encoded=excluded.encoded,
			generation=excluded.generation,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		snapshot.BoardID, snapshot.Encoded, snapshot.Generation, time.Now(),
	)
	return err
}

// Get returns the stored snapshot, or nil when none exists yet.
func (r *SQLiteBoardRepository) Get(ctx context.Context, boardID string) (*BoardSnapshot, error) {
	query := `SELECT board_id, encoded, generation FROM boards WHERE board_id = ?`
	var s BoardSnapshot
	err := r.db.QueryRowContext(ctx, query, boardID).Scan(&s.BoardID, &s.Encoded, &s.Generation)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
