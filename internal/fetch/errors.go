package fetch

import "errors"

var (
	// ErrMalformedJSON marks an item file whose content is not a JSON object.
	// The file is skipped and the scan continues.
	ErrMalformedJSON = errors.New("malformed JSON")

	// ErrMissingField marks a valid JSON item that lacks a required field
	// (rarity as a string). It aborts the run unless invalid items are skipped.
	ErrMissingField = errors.New("missing required field")

	// ErrAssetPathMissing is returned when the asset path is not a directory
	ErrAssetPathMissing = errors.New("asset path does not exist")

	// ErrNoItemsDir is returned when the asset path has no items subdirectory
	ErrNoItemsDir = errors.New("subdirectory 'items' not found")
)
