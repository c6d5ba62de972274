package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/wardrobe-fetcher/internal/models"
	"github.com/meur/wardrobe-fetcher/internal/storage"
)

func newTestServer(t *testing.T, assetDir string) (*Server, []models.ItemRecord) {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	records := []models.ItemRecord{
		{Name: json.RawMessage(`"Cap"`), Category: models.Head, Path: "/items/", FileName: "cap.head", Rarity: "common"},
		{Name: json.RawMessage(`"Cape"`), Category: models.Back, Path: "/items/", FileName: "cape.back", Rarity: "rare"},
	}
	require.NoError(t, store.BulkUpsertItems(records))

	return New(store, assetDir), records
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := get(t, s, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestGetCategories(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := get(t, s, "/api/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts []models.CategoryCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, []models.CategoryCount{
		{Category: models.Head, Count: 1},
		{Category: models.Chest, Count: 0},
		{Category: models.Legs, Count: 0},
		{Category: models.Back, Count: 1},
	}, counts)
}

func TestGetItems(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := get(t, s, "/api/items?category=back")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items      []models.CatalogItem `json:"items"`
		TotalCount int                  `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.TotalCount)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Cape", body.Items[0].Name)

	rec = get(t, s, "/api/items")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalCount)
}

func TestGetItems_UnknownCategory(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := get(t, s, "/api/items?category=feet")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown category")
}

func TestGetItem(t *testing.T) {
	s, records := newTestServer(t, "")

	rec := get(t, s, "/api/items/"+records[0].ID())
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.CatalogItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "cap.head", item.FileName)

	rec = get(t, s, "/api/items/does-not-exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssetFiles(t *testing.T) {
	assets := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(assets, "items"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "items", "cap.png"), []byte("png"), 0o644))

	s, _ := newTestServer(t, assets)

	rec := get(t, s, "/assets/items/cap.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())

	rec = get(t, s, "/assets")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
}

func TestAssetFiles_DisabledWithoutDir(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := get(t, s, "/assets/items/cap.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
