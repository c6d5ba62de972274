package fetch

import (
	"fmt"

	"github.com/meur/wardrobe-fetcher/internal/models"
)

// ResultSet holds scanned records per category in discovery order.
// All categories are present from construction, even when empty.
type ResultSet struct {
	items map[models.Category][]models.ItemRecord
}

// NewResultSet creates a ResultSet with every category present and empty
func NewResultSet() *ResultSet {
	items := make(map[models.Category][]models.ItemRecord, len(models.Categories()))
	for _, c := range models.Categories() {
		items[c] = []models.ItemRecord{}
	}
	return &ResultSet{items: items}
}

// Add appends record to its category
func (r *ResultSet) Add(record models.ItemRecord) error {
	list, ok := r.items[record.Category]
	if !ok {
		return fmt.Errorf("unknown category %q", record.Category)
	}
	r.items[record.Category] = append(list, record)
	return nil
}

// Items returns the records of one category in discovery order
func (r *ResultSet) Items(category models.Category) []models.ItemRecord {
	return r.items[category]
}

// All returns every record, category by category
func (r *ResultSet) All() []models.ItemRecord {
	all := make([]models.ItemRecord, 0, r.Total())
	for _, c := range models.Categories() {
		all = append(all, r.items[c]...)
	}
	return all
}

// Counts returns the number of records per category in category order
func (r *ResultSet) Counts() []models.CategoryCount {
	counts := make([]models.CategoryCount, 0, len(r.items))
	for _, c := range models.Categories() {
		counts = append(counts, models.CategoryCount{Category: c, Count: len(r.items[c])})
	}
	return counts
}

// Total returns the number of records across all categories
func (r *ResultSet) Total() int {
	total := 0
	for _, list := range r.items {
		total += len(list)
	}
	return total
}
