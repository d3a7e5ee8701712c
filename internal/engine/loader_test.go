package engine

import (
	"errors"
	"testing"

	"github.com/atreyapandit/gameoflife/server/internal/codec"
	"github.com/atreyapandit/gameoflife/server/internal/domain/board"
)

type fakeFiles struct {
	boards map[string]string
	writes map[string]string
}

var errFakeNotFound = errors.New("no such board file")

func (f *fakeFiles) ReadBoard(path string) (string, error) {
	text, ok := f.boards[path]
	if !ok {
		return "", errFakeNotFound
	}
	return text, nil
}

func (f *fakeFiles) WriteBoard(name, text string) error {
	if f.writes == nil {
		f.writes = make(map[string]string)
	}
	f.writes[name] = text
	return nil
}

func TestLoadReplacesBoard(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(0, 0)
	sim.Release()

	saved := board.NewGrid()
	saved.Set(40, 40, board.Alive)
	files := &fakeFiles{boards: map[string]string{"boards/x.txt": codec.Encode(saved)}}
	loader := NewBoardLoader(files, sim, testLogger())

	if err := loader.Load("boards/x.txt", true); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !sim.Snapshot().Equal(saved) {
		t.Errorf("replace load should install the file contents exactly")
	}
}

func TestLoadOverlayAddsWithoutClearing(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(0, 0)
	sim.Release()

	saved := board.NewGrid()
	saved.Set(40, 40, board.Alive)
	files := &fakeFiles{boards: map[string]string{"presets/glider.txt": codec.Encode(saved)}}
	loader := NewBoardLoader(files, sim, testLogger())

	if err := loader.Load("presets/glider.txt", false); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	g := sim.Snapshot()
	if g.Get(0, 0) != board.Alive || g.Get(40, 40) != board.Alive {
		t.Errorf("overlay load should keep old live cells and add new ones")
	}
}

func TestLoadMissingFileChangesNothing(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(0, 0)
	sim.Release()
	before := sim.Snapshot()

	loader := NewBoardLoader(&fakeFiles{boards: map[string]string{}}, sim, testLogger())

	err := loader.Load("boards/missing.txt", true)
	if !errors.Is(err, errFakeNotFound) {
		t.Fatalf("expected the reader's not-found error to be reported, got %v", err)
	}
	if !sim.Snapshot().Equal(before) {
		t.Errorf("a failed load must not change the board")
	}
}

func TestLoadMalformedFileChangesNothing(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(0, 0)
	sim.Release()
	before := sim.Snapshot()

	files := &fakeFiles{boards: map[string]string{"boards/bad.txt": "1,0,1-0,1"}}
	loader := NewBoardLoader(files, sim, testLogger())

	err := loader.Load("boards/bad.txt", true)
	var rowErr *codec.RowCountError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected the decode error to pass through, got %v", err)
	}
	if !sim.Snapshot().Equal(before) {
		t.Errorf("a failed decode must not change the board")
	}
}

func TestSaveWritesEncodedBoard(t *testing.T) {
	sim := newTestSimulation()
	sim.Press(7, 7)
	sim.Release()

	files := &fakeFiles{}
	saver := NewBoardSaver(files, sim, testLogger())

	if err := saver.Save("my board"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	decoded, err := codec.Decode(files.writes["my board"])
	if err != nil {
		t.Fatalf("saved text does not decode: %v", err)
	}
	if !decoded.Equal(sim.Snapshot()) {
		t.Errorf("saved board differs from the live board")
	}
}
