package engine

import (
	"fmt"

	"github.com/atreyapandit/gameoflife/server/internal/codec"
	"github.com/atreyapandit/gameoflife/server/internal/platform/logger"
)

// FileReader is the external collaborator that resolves a board path to
// its text content.
type FileReader interface {
	ReadBoard(path string) (string, error)
}

// FileWriter is the external collaborator that persists board text
// under a user-chosen save name.
type FileWriter interface {
	WriteBoard(name, text string) error
}

// BoardLoader orchestrates decode plus replace-or-overlay application.
// Every failure leaves the live board untouched.
type BoardLoader struct {
	files  FileReader
	sim    *Simulation
	logger *logger.Logger
}

// NewBoardLoader wires the loader to its file collaborator.
func NewBoardLoader(files FileReader, sim *Simulation, log *logger.Logger) *BoardLoader {
	return &BoardLoader{files: files, sim: sim, logger: log}
}

// Load reads, decodes, and applies a board file. With replaceAll the
// file overwrites the whole board; otherwise only its Alive cells are
// stamped onto the current board.
func (l *BoardLoader) Load(path string, replaceAll bool) error {
	text, err := l.files.ReadBoard(path)
	if err != nil {
		l.logger.Warn("Board load failed, invalid path: " + path)
		l.logger.Debug("underlying read error: " + err.Error())
		return fmt.Errorf("invalid board path %q: %w", path, err)
	}

	decoded, err := codec.Decode(text)
	if err != nil {
		l.logger.Warn("Board load failed, bad file content: " + err.Error())
		return err
	}

	l.sim.ApplyBoard(decoded, replaceAll)
	l.logger.Event("BOARD_LOADED", actorUser, fmt.Sprintf("path=%s replaceAll=%t", path, replaceAll))
	return nil
}

// BoardSaver encodes the live board and hands it to the file
// collaborator. Name validation happens inside the collaborator, before
// anything touches the disk.
type BoardSaver struct {
	files  FileWriter
	sim    *Simulation
	logger *logger.Logger
}

// NewBoardSaver wires the saver to its file collaborator.
func NewBoardSaver(files FileWriter, sim *Simulation, log *logger.Logger) *BoardSaver {
	return &BoardSaver{files: files, sim: sim, logger: log}
}

// Save writes the current board under the given save name.
func (s *BoardSaver) Save(name string) error {
	text := codec.Encode(s.sim.Snapshot())
	if err := s.files.WriteBoard(name, text); err != nil {
		s.logger.Warn("Board save failed: " + err.Error())
		return err
	}
	s.sim.markSaved(name)
	s.logger.Event("BOARD_SAVED", actorUser, "name="+name)
	return nil
}
