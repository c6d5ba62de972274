package fetch

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/meur/wardrobe-fetcher/internal/logger"
	"github.com/meur/wardrobe-fetcher/internal/models"
)

// Walker enumerates item files below a root directory
type Walker struct {
	exclude []string
	log     *logger.Logger
}

// NewWalker creates a Walker. Exclude patterns use doublestar syntax and are
// matched against slash-separated paths relative to the scanned root.
func NewWalker(exclude []string, log *logger.Logger) (*Walker, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	if log == nil {
		log = logger.Default()
	}
	return &Walker{exclude: exclude, log: log}, nil
}

// Extension returns the text after the last dot of a file name, without the dot
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// Scan yields every item file below root, depth-first. The files of a
// directory come first in listing order, then each subdirectory in turn.
// A directory that cannot be listed yields an error and ends the sequence.
func (w *Walker) Scan(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		w.visit(root, root, yield)
	}
}

func (w *Walker) visit(root, dir string, yield func(string, error) bool) bool {
	w.log.Info(fmt.Sprintf("Scanning '%s'", dir))

	entries, err := os.ReadDir(dir)
	if err != nil {
		yield("", fmt.Errorf("failed to list directory %s: %w", dir, err))
		return false
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if w.excluded(root, path) {
			w.log.Debug("excluded", logger.String("path", path))
			continue
		}
		if entry.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if _, ok := models.ParseCategory(Extension(entry.Name())); !ok {
			continue
		}
		if !yield(path, nil) {
			return false
		}
	}

	for _, sub := range subdirs {
		if !w.visit(root, sub, yield) {
			return false
		}
	}
	return true
}

func (w *Walker) excluded(root, path string) bool {
	if len(w.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.exclude {
		// Patterns were validated in NewWalker.
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
