package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/meur/wardrobe-fetcher/internal/models"
)

// ParseItem reads one item file and projects it into an ItemRecord.
//
// Comments and trailing commas are accepted. Content that is not a JSON
// object yields ErrMalformedJSON. A JSON object
// without a string "rarity" yields ErrMissingField. Read failures are
// returned unwrapped from either sentinel.
func ParseItem(filePath, assetRoot string) (models.ItemRecord, error) {
	absFile, err := filepath.Abs(filePath)
	if err != nil {
		return models.ItemRecord{}, fmt.Errorf("failed to resolve %s: %w", filePath, err)
	}

	content, err := os.ReadFile(absFile)
	if err != nil {
		return models.ItemRecord{}, fmt.Errorf("failed to read %s: %w", absFile, err)
	}

	// Asset files may carry comments and trailing commas.
	content, err = hujson.Standardize(content)
	if err != nil {
		return models.ItemRecord{}, fmt.Errorf("%w: %s: %v", ErrMalformedJSON, absFile, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return models.ItemRecord{}, fmt.Errorf("%w: %s: %v", ErrMalformedJSON, absFile, err)
	}
	if raw == nil {
		return models.ItemRecord{}, fmt.Errorf("%w: %s: top-level value is null", ErrMalformedJSON, absFile)
	}

	category, ok := models.ParseCategory(Extension(filepath.Base(absFile)))
	if !ok {
		return models.ItemRecord{}, fmt.Errorf("%s is not an item file", absFile)
	}

	rarity, ok := stringValue(raw["rarity"])
	if !ok {
		return models.ItemRecord{}, fmt.Errorf("%w: %s: rarity must be a string", ErrMissingField, absFile)
	}

	record := models.ItemRecord{
		Name:             raw["itemName"],
		ShortDescription: raw["shortdescription"],
		Category:         category,
		Path:             ProjectPath(filepath.Dir(absFile), assetRoot),
		Icon:             raw["inventoryIcon"],
		FileName:         filepath.Base(absFile),
		MaleFrames:       raw["maleFrames"],
		FemaleFrames:     raw["femaleFrames"],
		Mask:             raw["mask"],
		Rarity:           strings.ToLower(rarity),
	}
	if colorOptions := raw["colorOptions"]; isArray(colorOptions) {
		record.ColorOptions = colorOptions
	}
	return record, nil
}

// ProjectPath expresses dir relative to assetRoot as an asset path:
// forward slashes with a leading and trailing slash ("/items/hats/").
// When dir is not below assetRoot the absolute directory is kept.
func ProjectPath(dir, assetRoot string) string {
	absRoot, rootErr := filepath.Abs(assetRoot)
	absDir, dirErr := filepath.Abs(dir)
	if rootErr != nil || dirErr != nil {
		return slashed(dir) + "/"
	}

	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return strings.TrimSuffix(slashed(absDir), "/") + "/"
	}
	if rel == "." {
		return "/"
	}
	return "/" + slashed(rel) + "/"
}

// slashed converts OS separators and any literal backslashes to forward slashes
func slashed(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
}

func stringValue(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
