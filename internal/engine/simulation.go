package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atreyapandit/gameoflife/server/internal/domain/board"
	"github.com/atreyapandit/gameoflife/server/internal/events"
	"github.com/atreyapandit/gameoflife/server/internal/platform/logger"
	"github.com/atreyapandit/gameoflife/server/internal/platform/metrics"
)

const (
	// MaxStepBurst bounds a custom multi-step request. The burst runs
	// synchronously; the bound keeps the worst-case latency acceptable.
	MaxStepBurst = 1000

	// AutoplayTickInterval is how many scheduler ticks pass between
	// generations while continuous simulation is enabled.
	AutoplayTickInterval = 100
)

var (
	// ErrAutoplayActive reports an undo refused while continuous
	// simulation runs. The snapshot slot is overwritten on entering
	// autoplay and would race the clock mid-undo.
	ErrAutoplayActive = errors.New("undo is blocked while autoplay is running")

	// ErrStepCountRange reports a custom step count outside [1, MaxStepBurst].
	ErrStepCountRange = fmt.Errorf("step count must be between 1 and %d", MaxStepBurst)

	// ErrStepCountNotANumber reports non-numeric custom step input.
	ErrStepCountNotANumber = errors.New("step count must be a whole number")
)

const (
	actorUser  = "USER"
	actorClock = "CLOCK"
)

// Simulation owns the whole board state: the live grid, the single
// retained snapshot, and the pending edit gesture. Every mutation goes
// through its methods under one mutex; the ticker goroutine and the
// transport adapter are the only callers and must never touch the grid
// directly.
type Simulation struct {
	mu         sync.Mutex
	history    *History
	pending    *board.PendingEdits
	pressed    bool
	autoplay   bool
	tickCount  int64
	generation int64

	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewSimulation starts with an all-Dead board at generation zero.
func NewSimulation(eventLog *events.EventLog, log *logger.Logger) *Simulation {
	return &Simulation{
		history:  NewHistory(board.NewGrid()),
		pending:  board.NewPendingEdits(),
		eventLog: eventLog,
		logger:   log,
	}
}

// emit appends an operation event. Callers hold s.mu.
func (s *Simulation) emit(t events.EventType, actor string, payload interface{}) {
	if s.eventLog == nil {
		return
	}
	s.eventLog.Append(events.GameEvent{
		ID:         events.NewEventID(),
		Timestamp:  time.Now(),
		Type:       t,
		Actor:      actor,
		Payload:    payload,
		Generation: s.generation,
	})
}

// Snapshot returns an independent copy of the live grid for rendering.
func (s *Simulation) Snapshot() *board.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Current().Clone()
}

// PendingCells returns the coordinates of the in-flight edit gesture.
func (s *Simulation) PendingCells() []board.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Cells()
}

// Generation returns the number of generations computed so far.
func (s *Simulation) Generation() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Autoplay reports whether continuous simulation is enabled.
func (s *Simulation) Autoplay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoplay
}

// Press starts an edit gesture at an already-resolved cell coordinate.
func (s *Simulation) Press(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed = true
	s.pending.Mark(row, col)
}

// Drag extends the current gesture. Ignored when no press is active.
func (s *Simulation) Drag(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pressed {
		return
	}
	s.pending.Mark(row, col)
}

// Release commits the gesture: the pre-edit board is snapshotted, then
// every pending cell is flipped exactly once.
func (s *Simulation) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pressed {
		return
	}
	s.pressed = false
	changed := s.pending.Len()
	if changed == 0 {
		return
	}
	s.history.SnapshotBefore()
	s.pending.Commit(s.history.Current())
	s.emit(events.EventTypeEditCommit, actorUser, events.EditCommitPayload{
		CellsChanged: changed,
		Population:   s.history.Current().Alive(),
	})
}

// AbortGesture discards the pending set without committing anything.
func (s *Simulation) AbortGesture() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed = false
	s.pending.Clear()
}

// ParseStepCount validates raw custom-step input as an integer in
// [1, MaxStepBurst]. Failures are reported validation outcomes.
func ParseStepCount(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrStepCountNotANumber
	}
	if n < 1 || n > MaxStepBurst {
		return 0, ErrStepCountRange
	}
	return n, nil
}

// Step advances the board by one generation.
func (s *Simulation) Step() error {
	return s.StepN(1)
}

// StepN advances the board by n generations as one synchronous burst.
// The pre-burst board is snapshotted once, so undo rewinds the whole
// burst.
func (s *Simulation) StepN(n int) error {
	if n < 1 || n > MaxStepBurst {
		return ErrStepCountRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.SnapshotBefore()
	s.history.SetCurrent(Advance(s.history.Current(), n))
	s.generation += int64(n)
	metrics.Get().RecordGenerations(int64(n))
	s.emit(events.EventTypeStepApplied, actorUser, events.StepPayload{
		Steps:      n,
		Generation: s.generation,
		Population: s.history.Current().Alive(),
	})
	return nil
}

// Reset kills every cell. The pre-reset board stays undoable.
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.SnapshotBefore()
	s.history.Current().Reset()
	s.emit(events.EventTypeBoardReset, actorUser, nil)
}

// Undo swaps the live board with the retained snapshot. Refused while
// autoplay runs; reports ErrNothingToUndo when the boards already match.
// Both refusals are informational outcomes for the user, not failures.
func (s *Simulation) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.autoplay {
		s.logger.Warn("Undo refused: autoplay is running")
		return ErrAutoplayActive
	}
	if err := s.history.Undo(); err != nil {
		metrics.Get().RecordUndo(true)
		return err
	}
	metrics.Get().RecordUndo(false)
	s.emit(events.EventTypeBoardUndo, actorUser, nil)
	return nil
}

// SetAutoplay enables or disables continuous simulation. Entering
// autoplay snapshots the board once, so undo after leaving autoplay
// rewinds to the board as it was when autoplay began.
func (s *Simulation) SetAutoplay(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.autoplay == on {
		return
	}
	if on {
		s.history.SnapshotBefore()
	}
	s.autoplay = on
	s.emit(events.EventTypeAutoplayToggled, actorUser, events.AutoplayPayload{Enabled: on})
}

// OnTick is the scheduler entry point. Every call advances the tick
// counter; one generation is computed each time autoplay is enabled and
// the counter reaches the interval. Callable directly in tests, no wall
// clock involved.
func (s *Simulation) OnTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickCount++
	if !s.autoplay || s.tickCount%AutoplayTickInterval != 0 {
		return
	}
	s.history.SetCurrent(Next(s.history.Current()))
	s.generation++
	metrics.Get().RecordGenerations(1)
	s.emit(events.EventTypeTimeTick, actorClock, events.TimeTickPayload{
		TickNumber: s.tickCount,
		Generation: s.generation,
	})
}

// ApplyBoard merges a decoded board into the live grid. With replaceAll
// the result is bit-for-bit the loaded board; in overlay mode only the
// loaded Alive cells are imposed, a Dead loaded cell never clears an
// existing Alive cell.
func (s *Simulation) ApplyBoard(loaded *board.Grid, replaceAll bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.SnapshotBefore()
	current := s.history.Current()
	for row := 0; row < board.Rows; row++ {
		for col := 0; col < board.Cols; col++ {
			v := loaded.Get(row, col)
			if replaceAll || v == board.Alive {
				current.Set(row, col, v)
			}
		}
	}
	s.emit(events.EventTypeBoardLoaded, actorUser, events.LoadPayload{
		ReplaceAll: replaceAll,
		Population: current.Alive(),
	})
}

// Restore installs a recovered board at startup. Both history slots are
// set to it, so the restored state is not itself undoable.
func (s *Simulation) Restore(g *board.Grid, generation int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = NewHistory(g.Clone())
	s.generation = generation
	s.pending.Clear()
	s.pressed = false
}

// markSaved journals a completed save. Called by the BoardSaver after
// the file write succeeds.
func (s *Simulation) markSaved(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit(events.EventTypeBoardSaved, actorUser, events.SavePayload{Name: name})
}
