package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/wardrobe-fetcher/internal/models"
)

// Store handles all catalog database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			name TEXT,
			file_name TEXT NOT NULL,
			path TEXT NOT NULL,
			icon TEXT,
			rarity TEXT,
			data TEXT NOT NULL,
			scanned_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category)`,
		`CREATE INDEX IF NOT EXISTS idx_items_rarity ON items(category, rarity)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

const itemColumns = `id, category, name, file_name, path, icon, rarity, data, scanned_at`

// GetItems returns catalog items, optionally filtered by category
func (s *Store) GetItems(category models.Category) ([]models.CatalogItem, error) {
	var rows *sql.Rows
	var err error

	if category != "" {
		rows, err = s.db.Query(`
			SELECT `+itemColumns+`
			FROM items WHERE category = ? ORDER BY path, file_name
		`, string(category))
	} else {
		rows, err = s.db.Query(`
			SELECT ` + itemColumns + `
			FROM items ORDER BY category, path, file_name
		`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CatalogItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItem returns an item by ID
func (s *Store) GetItem(id string) (*models.CatalogItem, error) {
	row := s.db.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CountByCategory returns the number of items per category in category order
func (s *Store) CountByCategory() ([]models.CategoryCount, error) {
	rows, err := s.db.Query(`SELECT category, COUNT(*) FROM items GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := map[models.Category]int{}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		found[models.Category(category)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts := make([]models.CategoryCount, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		counts = append(counts, models.CategoryCount{Category: c, Count: found[c]})
	}
	return counts, nil
}

// BulkUpsertItems stores records in a transaction, replacing rows with the same ID
func (s *Store) BulkUpsertItems(records []models.ItemRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", r.FileName, err)
		}
		_, err = stmt.Exec(r.ID(), string(r.Category), r.DisplayName(), r.FileName,
			r.Path, r.IconName(), r.Rarity, string(data), now)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteItemsByCategory removes every item of a category
func (s *Store) DeleteItemsByCategory(category models.Category) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM items WHERE category = ?`, string(category))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.CatalogItem, error) {
	var item models.CatalogItem
	var category, dataStr string
	var name, icon, rarity sql.NullString
	err := row.Scan(&item.ID, &category, &name, &item.FileName, &item.Path,
		&icon, &rarity, &dataStr, &item.ScannedAt)
	if err != nil {
		return item, err
	}
	item.Category = models.Category(category)
	item.Name = name.String
	item.Icon = icon.String
	item.Rarity = rarity.String
	if err := json.Unmarshal([]byte(dataStr), &item.Record); err != nil {
		return item, fmt.Errorf("corrupt record %s: %w", item.ID, err)
	}
	return item, nil
}
