package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Category is the equipment slot an item file belongs to.
// It is taken from the file extension, never from the file content.
type Category string

const (
	Head  Category = "head"
	Chest Category = "chest"
	Legs  Category = "legs"
	Back  Category = "back"
)

// Categories returns all categories in output order
func Categories() []Category {
	return []Category{Head, Chest, Legs, Back}
}

// ParseCategory maps a file extension (without the dot) to its category.
// The match is case-sensitive.
func ParseCategory(ext string) (Category, bool) {
	switch Category(ext) {
	case Head, Chest, Legs, Back:
		return Category(ext), true
	}
	return "", false
}

// ItemRecord is the normalized form of one item file as written to the
// wardrobe document. Field order here is the serialized key order.
type ItemRecord struct {
	Name             json.RawMessage `json:"name"`
	ShortDescription json.RawMessage `json:"shortdescription"`
	Category         Category        `json:"category"`
	Path             string          `json:"path"`
	Icon             json.RawMessage `json:"icon"`
	FileName         string          `json:"fileName"`
	MaleFrames       json.RawMessage `json:"maleFrames"`
	FemaleFrames     json.RawMessage `json:"femaleFrames"`
	Mask             json.RawMessage `json:"mask"`
	Rarity           string          `json:"rarity"`
	ColorOptions     json.RawMessage `json:"colorOptions,omitempty"` // Only set when the source value is an array
}

// recordNamespace scopes record IDs so they never collide with other UUIDv5 users.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("wardrobe-fetcher/items"))

// RecordID returns a stable ID for an item file location
func RecordID(category Category, path, fileName string) string {
	return uuid.NewSHA1(recordNamespace, []byte(string(category)+":"+path+fileName)).String()
}

// ID returns the stable catalog ID of the record
func (r ItemRecord) ID() string {
	return RecordID(r.Category, r.Path, r.FileName)
}

// DisplayName returns the item name as plain text, or "" when it is not a string.
func (r ItemRecord) DisplayName() string {
	return rawString(r.Name)
}

// IconName returns the inventory icon as plain text, or "" when it is not a string.
func (r ItemRecord) IconName() string {
	return rawString(r.Icon)
}

func rawString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// PatchOperation is a JSON-patch style append of a record to its category array
type PatchOperation struct {
	Op    string     `json:"op"`
	Path  string     `json:"path"`
	Value ItemRecord `json:"value"`
}

// AddOperation builds the "add" operation that appends record to its category
func AddOperation(record ItemRecord) PatchOperation {
	return PatchOperation{
		Op:    "add",
		Path:  "/" + string(record.Category) + "/-",
		Value: record,
	}
}

// CatalogItem is a record as stored in the item catalog
type CatalogItem struct {
	ID        string     `json:"id"`
	Category  Category   `json:"category"`
	Name      string     `json:"name"`
	FileName  string     `json:"file_name"`
	Path      string     `json:"path"`
	Icon      string     `json:"icon"`
	Rarity    string     `json:"rarity"`
	Record    ItemRecord `json:"record"`
	ScannedAt time.Time  `json:"scanned_at"`
}

// CategoryCount is the number of catalog items in one category
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}
