// Package fetch scans an unpacked asset tree for wardrobe item files and
// projects them into per-category records.
package fetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meur/wardrobe-fetcher/internal/logger"
)

// ItemsDir is the asset subdirectory that holds item definitions
const ItemsDir = "items"

// Options controls a fetch run
type Options struct {
	AssetRoot string
	Exclude   []string

	// SkipInvalid treats items with missing required fields like malformed
	// files: logged and skipped instead of aborting the run.
	SkipInvalid bool

	Logger *logger.Logger
}

// Stats summarizes a fetch run
type Stats struct {
	Files   int
	Skipped int
}

// ResolveAssetRoot validates the asset path and returns it absolute with any
// trailing separator removed.
func ResolveAssetRoot(assetPath string) (string, error) {
	trimmed := strings.TrimRight(assetPath, `/\`)
	if trimmed == "" {
		trimmed = assetPath
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrAssetPathMissing, assetPath)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrAssetPathMissing, abs)
	}

	info, err = os.Stat(filepath.Join(abs, ItemsDir))
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w in %s", ErrNoItemsDir, abs)
	}
	return abs, nil
}

// Fetch walks <AssetRoot>/items and collects a record for every item file.
// Malformed files are skipped with a warning; any other failure aborts the
// run and no partial result is returned.
func Fetch(opts Options) (*ResultSet, Stats, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	walker, err := NewWalker(opts.Exclude, log)
	if err != nil {
		return nil, Stats{}, err
	}

	result := NewResultSet()
	var stats Stats

	for path, err := range walker.Scan(filepath.Join(opts.AssetRoot, ItemsDir)) {
		if err != nil {
			return nil, stats, err
		}
		stats.Files++

		record, err := ParseItem(path, opts.AssetRoot)
		switch {
		case errors.Is(err, ErrMalformedJSON):
			log.Warn(fmt.Sprintf("Skipped '%s', as it could not be parsed as a valid JSON file.", path), logger.Err(err))
			stats.Skipped++
			continue
		case errors.Is(err, ErrMissingField) && opts.SkipInvalid:
			log.Warn(fmt.Sprintf("Skipped '%s', as it is missing a required field.", path), logger.Err(err))
			stats.Skipped++
			continue
		case err != nil:
			return nil, stats, err
		}

		if err := result.Add(record); err != nil {
			return nil, stats, err
		}
		log.Debug("added item", logger.String("category", string(record.Category)), logger.String("file", record.FileName))
	}

	return result, stats, nil
}
