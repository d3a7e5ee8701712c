// Package storage persists boards as delimited-text save files and
// keeps the durable operation journal in SQLite.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const saveExtension = ".txt"

// ErrBoardNotFound reports a load path that resolves to no file.
var ErrBoardNotFound = errors.New("board file not found")

// SaveNameError reports a save name containing a forbidden character.
// Allowed characters are letters, digits, space, underscore, and hyphen.
type SaveNameError struct {
	Name     string
	Offender rune
}

func (e *SaveNameError) Error() string {
	return fmt.Sprintf("save name %q contains forbidden character %q", e.Name, e.Offender)
}

// ValidateSaveName enforces the [a-zA-Z0-9 _-] character set before any
// file write is attempted. Empty names are rejected too.
func ValidateSaveName(name string) error {
	if name == "" {
		return &SaveNameError{Name: name, Offender: 0}
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == ' ' || r == '_' || r == '-':
		default:
			return &SaveNameError{Name: name, Offender: r}
		}
	}
	return nil
}

// Preset describes a built-in read-only board. Presets are stamped onto
// the live board in overlay mode unless ReplaceAll is set.
type Preset struct {
	Name       string
	File       string
	ReplaceAll bool
}

var presets = []Preset{
	{Name: "glider", File: "glider.txt"},
	{Name: "gosper-gun", File: "gosper_gun.txt"},
	{Name: "pulsar", File: "pulsar.txt"},
	{Name: "r-pentomino", File: "r_pentomino.txt", ReplaceAll: true},
}

// Presets lists the built-in boards.
func Presets() []Preset {
	return presets
}

// FindPreset resolves a preset by name.
func FindPreset(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// FileStore reads and writes board save files under a base directory
// for user saves and a fixed directory for presets.
type FileStore struct {
	baseDir   string
	presetDir string
}

// NewFileStore creates a store rooted at the given directories.
func NewFileStore(baseDir, presetDir string) *FileStore {
	return &FileStore{baseDir: baseDir, presetDir: presetDir}
}

// SavePath validates a user save name and returns its full path.
func (s *FileStore) SavePath(name string) (string, error) {
	if err := ValidateSaveName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, name+saveExtension), nil
}

// PresetPath returns the fixed relative path of a preset board.
func (s *FileStore) PresetPath(p Preset) string {
	return filepath.Join(s.presetDir, p.File)
}

// ReadBoard returns a board file's text. A missing file is reported as
// ErrBoardNotFound so callers can distinguish it from other I/O trouble.
func (s *FileStore) ReadBoard(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrBoardNotFound, path)
		}
		return "", err
	}
	return string(data), nil
}

// WriteBoard validates the save name and writes the board text under the
// base directory, overwriting any existing file of the same name.
func (s *FileStore) WriteBoard(name, text string) error {
	path, err := s.SavePath(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write board file: %w", err)
	}
	return nil
}
