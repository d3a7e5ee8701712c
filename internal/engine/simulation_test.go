package engine

import (
	"errors"
	"testing"

	"github.com/atreyapandit/gameoflife/server/internal/domain/board"
	"github.com/atreyapandit/gameoflife/server/internal/events"
	"github.com/atreyapandit/gameoflife/server/internal/platform/logger"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(false)
}

func newTestSimulation() *Simulation {
	return NewSimulation(events.NewEventLog(nil), testLogger())
}

func TestGestureCommitFlipsCellsOnce(t *testing.T) {
	sim := newTestSimulation()

	sim.Press(10, 10)
	sim.Drag(10, 11)
	sim.Drag(10, 10) // dragging back over a pending cell must not double-flip
	sim.Release()

	g := sim.Snapshot()
	if g.Get(10, 10) != board.Alive || g.Get(10, 11) != board.Alive {
		t.Errorf("released gesture should flip both touched cells alive")
	}
	if g.Alive() != 2 {
		t.Errorf("expected 2 live cells, got %d", g.Alive())
	}
	if len(sim.PendingCells()) != 0 {
		t.Errorf("commit should clear the pending set")
	}
}

func TestGestureAbortLeavesBoardUntouched(t *testing.T) {
	sim := newTestSimulation()

	sim.Press(4, 4)
	sim.Drag(4, 5)
	sim.AbortGesture()

	if sim.Snapshot().Alive() != 0 {
		t.Errorf("aborted gesture must not change the board")
	}
	if len(sim.PendingCells()) != 0 {
		t.Errorf("abort should clear the pending set")
	}
}

func TestGestureCommitIsUndoable(t *testing.T) {
	sim := newTestSimulation()

	sim.Press(7, 7)
	sim.Release()

	if err := sim.Undo(); err != nil {
		t.Fatalf("undo after edit failed: %v", err)
	}
	if sim.Snapshot().Alive() != 0 {
		t.Errorf("undo should revert the committed edit")
	}
}

func TestParseStepCount(t *testing.T) {
	rejected := []string{"0", "1001", "abc", "", "-5", "2.5"}
	for _, raw := range rejected {
		if _, err := ParseStepCount(raw); err == nil {
			t.Errorf("input %q should be rejected", raw)
		}
	}

	for raw, want := range map[string]int{"1": 1, "1000": 1000, " 42 ": 42} {
		n, err := ParseStepCount(raw)
		if err != nil {
			t.Errorf("input %q should be accepted, got %v", raw, err)
		}
		if n != want {
			t.Errorf("input %q parsed to %d, want %d", raw, n, want)
		}
	}

	if _, err := ParseStepCount("abc"); !errors.Is(err, ErrStepCountNotANumber) {
		t.Errorf("non-numeric input should report ErrStepCountNotANumber")
	}
	if _, err := ParseStepCount("1001"); !errors.Is(err, ErrStepCountRange) {
		t.Errorf("out-of-range input should report ErrStepCountRange")
	}
}

func TestStepNPerformsExactCount(t *testing.T) {
	sim := newTestSimulation()
	// A blinker has period 2: an even step count reproduces it, an odd
	// count rotates it, so the counts below are observable.
	sim.Press(30, 30)
	sim.Drag(30, 31)
	sim.Drag(30, 32)
	sim.Release()
	horizontal := sim.Snapshot()

	if err := sim.StepN(1); err != nil {
		t.Fatalf("StepN(1) failed: %v", err)
	}
	if sim.Snapshot().Equal(horizontal) {
		t.Errorf("one step should rotate the blinker")
	}
	if sim.Generation() != 1 {
		t.Errorf("generation should be 1, got %d", sim.Generation())
	}

	if err := sim.StepN(1000); err != nil {
		t.Fatalf("StepN(1000) failed: %v", err)
	}
	// 1001 total steps: odd, so the blinker is vertical.
	if sim.Snapshot().Equal(horizontal) {
		t.Errorf("1001 steps should leave the blinker rotated")
	}
	if sim.Generation() != 1001 {
		t.Errorf("generation should be 1001, got %d", sim.Generation())
	}
}

func TestStepNRejectsOutOfRange(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(20, 20)
	sim.Release()
	before := sim.Snapshot()

	for _, n := range []int{0, -1, 1001} {
		if err := sim.StepN(n); !errors.Is(err, ErrStepCountRange) {
			t.Errorf("StepN(%d) should report ErrStepCountRange, got %v", n, err)
		}
	}
	if !sim.Snapshot().Equal(before) {
		t.Errorf("rejected step requests must not change the board")
	}
	if sim.Generation() != 0 {
		t.Errorf("rejected step requests must not advance the generation")
	}
}

func TestMultiStepIsUndoableAsOneBurst(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(10, 11)
	sim.Drag(11, 12)
	sim.Drag(12, 10)
	sim.Drag(12, 11)
	sim.Drag(12, 12)
	sim.Release()
	beforeBurst := sim.Snapshot()

	if err := sim.StepN(8); err != nil {
		t.Fatalf("StepN failed: %v", err)
	}
	if err := sim.Undo(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if !sim.Snapshot().Equal(beforeBurst) {
		t.Errorf("undo should rewind the whole burst, not one generation")
	}
}

func TestResetIsUndoable(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(1, 1)
	sim.Release()

	sim.Reset()
	if sim.Snapshot().Alive() != 0 {
		t.Fatalf("reset should kill every cell")
	}

	if err := sim.Undo(); err != nil {
		t.Fatalf("undo after reset failed: %v", err)
	}
	if sim.Snapshot().Get(1, 1) != board.Alive {
		t.Errorf("undo should restore the pre-reset board")
	}
}

func TestUndoOnUnchangedBoardReportsNoOp(t *testing.T) {
	sim := newTestSimulation()

	if err := sim.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestUndoRefusedDuringAutoplay(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(2, 2)
	sim.Release()
	sim.SetAutoplay(true)

	if err := sim.Undo(); !errors.Is(err, ErrAutoplayActive) {
		t.Errorf("expected ErrAutoplayActive, got %v", err)
	}

	// Let the clock run one generation: the lone cell dies.
	for i := 0; i < AutoplayTickInterval; i++ {
		sim.OnTick()
	}
	sim.SetAutoplay(false)

	if err := sim.Undo(); err != nil {
		t.Fatalf("undo should work again after autoplay stops: %v", err)
	}
	if sim.Snapshot().Get(2, 2) != board.Alive {
		t.Errorf("undo should restore the board captured when autoplay began")
	}
}

func TestAutoplayAdvancesOnTickInterval(t *testing.T) {
	sim := newTestSimulation()
	// Vertical blinker so a single generation is visible.
	sim.Press(30, 30)
	sim.Drag(30, 31)
	sim.Drag(30, 32)
	sim.Release()
	start := sim.Snapshot()

	sim.SetAutoplay(true)

	for i := 0; i < AutoplayTickInterval-1; i++ {
		sim.OnTick()
	}
	if !sim.Snapshot().Equal(start) {
		t.Fatalf("board advanced before the tick interval elapsed")
	}

	sim.OnTick()
	if sim.Snapshot().Equal(start) {
		t.Errorf("board should advance on the interval tick")
	}
	if sim.Generation() != 1 {
		t.Errorf("expected generation 1, got %d", sim.Generation())
	}
}

func TestTicksAreInertWithoutAutoplay(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(30, 30)
	sim.Drag(30, 31)
	sim.Drag(30, 32)
	sim.Release()
	start := sim.Snapshot()

	for i := 0; i < AutoplayTickInterval*3; i++ {
		sim.OnTick()
	}

	if !sim.Snapshot().Equal(start) {
		t.Errorf("ticks must not advance the board while autoplay is off")
	}
}

func TestApplyBoardOverlayNeverKills(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(0, 0)
	sim.Release()

	loaded := board.NewGrid() // all dead, plus one live cell elsewhere
	loaded.Set(40, 40, board.Alive)

	sim.ApplyBoard(loaded, false)

	g := sim.Snapshot()
	if g.Get(0, 0) != board.Alive {
		t.Errorf("overlay load must not clear an existing live cell")
	}
	if g.Get(40, 40) != board.Alive {
		t.Errorf("overlay load should impose the loaded live cell")
	}
}

func TestApplyBoardReplaceIsExact(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(0, 0)
	sim.Release()

	loaded := board.NewGrid()
	loaded.Set(40, 40, board.Alive)

	sim.ApplyBoard(loaded, true)

	if !sim.Snapshot().Equal(loaded) {
		t.Errorf("replace load should make the board bit-for-bit equal to the file")
	}
}

func TestApplyBoardIsUndoable(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(0, 0)
	sim.Release()
	before := sim.Snapshot()

	loaded := board.NewGrid()
	loaded.Set(40, 40, board.Alive)
	sim.ApplyBoard(loaded, true)

	if err := sim.Undo(); err != nil {
		t.Fatalf("undo after load failed: %v", err)
	}
	if !sim.Snapshot().Equal(before) {
		t.Errorf("undo should restore the pre-load board")
	}
}

func TestRestoreIsNotUndoable(t *testing.T) {
	sim := newTestSimulation()

	g := board.NewGrid()
	g.Set(12, 12, board.Alive)
	sim.Restore(g, 42)

	if sim.Generation() != 42 {
		t.Errorf("restore should install the recovered generation counter")
	}
	if err := sim.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("a freshly restored board has nothing to undo, got %v", err)
	}
}
