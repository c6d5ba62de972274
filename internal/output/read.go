package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meur/wardrobe-fetcher/internal/models"
)

// ReadRecords extracts the records of a previously written output file.
// Both the category-keyed document and the patch operation list are
// accepted. Keys that are not categories and records whose category field
// disagrees with their array are reported as errors.
func ReadRecords(data []byte) ([]models.ItemRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty output file")
	}

	if trimmed[0] == '[' {
		var ops []models.PatchOperation
		if err := json.Unmarshal(trimmed, &ops); err != nil {
			return nil, fmt.Errorf("failed to decode patch operations: %w", err)
		}
		records := make([]models.ItemRecord, 0, len(ops))
		for i, op := range ops {
			if op.Op != "add" || op.Path != "/"+string(op.Value.Category)+"/-" {
				return nil, fmt.Errorf("operation %d: unsupported %s %s", i, op.Op, op.Path)
			}
			records = append(records, op.Value)
		}
		return records, nil
	}

	var doc map[string][]models.ItemRecord
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	var records []models.ItemRecord
	for key := range doc {
		if _, ok := models.ParseCategory(key); !ok {
			return nil, fmt.Errorf("unknown category %q", key)
		}
	}
	for _, c := range models.Categories() {
		for i, r := range doc[string(c)] {
			if r.Category != c {
				return nil, fmt.Errorf("%s[%d]: record category %q", c, i, r.Category)
			}
			records = append(records, r)
		}
	}
	return records, nil
}
