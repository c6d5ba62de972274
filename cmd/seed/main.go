package main

import (
	"flag"
	"log"
	"os"

	"github.com/meur/wardrobe-fetcher/internal/output"
	"github.com/meur/wardrobe-fetcher/internal/storage"
)

func main() {
	dbPath := flag.String("db", "./wardrobe.db", "SQLite catalog path")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatalf("Usage: seed [-db path] <wardrobe.json>...")
	}

	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	failed := 0
	for _, path := range flag.Args() {
		n, err := seedDocument(store, path)
		if err != nil {
			log.Printf("Warning: failed to seed %s: %v", path, err)
			failed++
			continue
		}
		log.Printf("✓ Seeded %d items from %s", n, path)
	}

	if failed > 0 {
		log.Printf("🌱 Seeding finished with %d failure(s)", failed)
		return
	}
	log.Println("🌱 Seeding complete!")
}

func seedDocument(store *storage.Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	records, err := output.ReadRecords(data)
	if err != nil {
		return 0, err
	}

	if err := store.BulkUpsertItems(records); err != nil {
		return 0, err
	}
	return len(records), nil
}
