package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/meur/wardrobe-fetcher/internal/api"
	"github.com/meur/wardrobe-fetcher/internal/storage"
)

func main() {
	// Parse flags
	port := flag.String("port", getEnv("PORT", "8080"), "Server port")
	dbPath := flag.String("db", getEnv("DB_PATH", "./wardrobe.db"), "SQLite catalog path")
	assetPath := flag.String("assets", getEnv("ASSET_PATH", ""), "Unpacked asset directory to serve under /assets/")
	flag.Parse()

	// Initialize storage
	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	r := api.New(store, *assetPath)

	log.Printf("🚀 Wardrobe catalog starting on http://localhost:%s", *port)
	log.Printf("📦 Database: %s", *dbPath)
	if *assetPath != "" {
		log.Printf("🎨 Assets: %s", *assetPath)
	}

	if err := http.ListenAndServe(":"+*port, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
