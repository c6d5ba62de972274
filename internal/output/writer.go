// Package output renders scan results as a wardrobe document or as a list
// of patch operations, and writes them to disk.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meur/wardrobe-fetcher/internal/fetch"
	"github.com/meur/wardrobe-fetcher/internal/models"
)

// Mode selects how the output file is produced
type Mode int

const (
	// Overwrite replaces the output file with the scanned document
	Overwrite Mode = iota
	// Merge unions the scanned document with the existing output file
	Merge
	// Patch writes one "add" operation per record
	Patch
)

func (m Mode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case Merge:
		return "merge"
	case Patch:
		return "patch"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Options controls rendering
type Options struct {
	Mode    Mode
	Compact bool
}

// ErrNoExisting is returned when merge mode has no existing document
var ErrNoExisting = errors.New("merge requires an existing output file")

// Render produces the output bytes for result. existing is the current
// content of the output file and is only read in Merge mode.
func Render(result *fetch.ResultSet, existing []byte, opts Options) ([]byte, error) {
	var value any
	switch opts.Mode {
	case Overwrite:
		value = NewDocument(result)
	case Merge:
		if len(bytes.TrimSpace(existing)) == 0 {
			return nil, ErrNoExisting
		}
		old, err := ParseDocument(existing)
		if err != nil {
			return nil, fmt.Errorf("failed to parse existing output: %w", err)
		}
		doc := NewDocument(result)
		if err := doc.Merge(old); err != nil {
			return nil, err
		}
		value = doc
	case Patch:
		value = PatchOperations(result)
	default:
		return nil, fmt.Errorf("unknown output mode %s", opts.Mode)
	}

	if opts.Compact {
		return json.Marshal(value)
	}
	return json.MarshalIndent(value, "", "  ")
}

// PatchOperations returns one append operation per record, in category
// order and then discovery order.
func PatchOperations(result *fetch.ResultSet) []models.PatchOperation {
	ops := make([]models.PatchOperation, 0, result.Total())
	for _, record := range result.All() {
		ops = append(ops, models.AddOperation(record))
	}
	return ops
}

// WriteFile replaces path with data. The content goes to a temporary file in
// the same directory first so a failed write leaves the old file untouched.
func WriteFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
