// Package events provides the append-only operation journal for the
// board. Every state-changing request the engine accepts is recorded
// here so the session can be replayed, broadcast, and persisted.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a board event.
type EventType string

const (
	EventTypeTimeTick        EventType = "TIME_TICK"
	EventTypeEditCommit      EventType = "EDIT_COMMIT"
	EventTypeStepApplied     EventType = "STEP_APPLIED"
	EventTypeAutoplayToggled EventType = "AUTOPLAY_TOGGLED"
	EventTypeBoardReset      EventType = "BOARD_RESET"
	EventTypeBoardUndo       EventType = "BOARD_UNDO"
	EventTypeBoardLoaded     EventType = "BOARD_LOADED"
	EventTypeBoardSaved      EventType = "BOARD_SAVED"
)

// TimeTickPayload is attached to autoplay generation advances.
type TimeTickPayload struct {
	TickNumber int64 `json:"tick_number"`
	Generation int64 `json:"generation"`
}

// StepPayload describes a manual single- or multi-step advance.
type StepPayload struct {
	Steps      int   `json:"steps"`
	Generation int64 `json:"generation"`
	Population int   `json:"population"`
}

// EditCommitPayload describes a committed edit gesture.
type EditCommitPayload struct {
	CellsChanged int `json:"cells_changed"`
	Population   int `json:"population"`
}

// AutoplayPayload records an autoplay mode change.
type AutoplayPayload struct {
	Enabled bool `json:"enabled"`
}

// LoadPayload describes a board load.
type LoadPayload struct {
	ReplaceAll bool `json:"replace_all"`
	Population int  `json:"population"`
}

// SavePayload names the save file a board was written to.
type SavePayload struct {
	Name string `json:"name"`
}

// GameEvent is an immutable record of one accepted operation.
type GameEvent struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Type       EventType   `json:"type"`
	Actor      string      `json:"actor"` // who requested the operation
	Payload    interface{} `json:"payload"`
	Generation int64       `json:"generation"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of board events.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()

	if el.persister != nil {
		// Write through to persistent storage off the caller's path;
		// the journal on disk may trail the in-memory log briefly.
		go func(e GameEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetByType returns all events of one category.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full history of events for reconstruction.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// NewEventID creates a unique event identifier.
func NewEventID() string {
	return uuid.NewString()
}
