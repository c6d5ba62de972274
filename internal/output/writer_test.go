package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/wardrobe-fetcher/internal/fetch"
	"github.com/meur/wardrobe-fetcher/internal/models"
)

const capRecord = `{"name":"Cap","shortdescription":"A cap","category":"head","path":"/items/",` +
	`"icon":"cap.png","fileName":"foo.head","maleFrames":null,"femaleFrames":null,"mask":null,"rarity":"common"}`

func record(category models.Category, name, fileName string) models.ItemRecord {
	return models.ItemRecord{
		Name:     json.RawMessage(`"` + name + `"`),
		Category: category,
		Path:     "/items/",
		FileName: fileName,
		Rarity:   "common",
	}
}

func capResult(t *testing.T) *fetch.ResultSet {
	t.Helper()
	r := fetch.NewResultSet()
	require.NoError(t, r.Add(models.ItemRecord{
		Name:             json.RawMessage(`"Cap"`),
		ShortDescription: json.RawMessage(`"A cap"`),
		Category:         models.Head,
		Path:             "/items/",
		Icon:             json.RawMessage(`"cap.png"`),
		FileName:         "foo.head",
		Rarity:           "common",
	}))
	return r
}

func TestRender_Overwrite(t *testing.T) {
	got, err := Render(capResult(t), nil, Options{Mode: Overwrite, Compact: true})
	require.NoError(t, err)

	assert.Equal(t, `{"head":[`+capRecord+`],"chest":[],"legs":[],"back":[]}`, string(got))
}

func TestRender_OverwriteIgnoresExisting(t *testing.T) {
	got, err := Render(capResult(t), []byte(`{"head":[{"name":"Old"}]}`), Options{Mode: Overwrite, Compact: true})
	require.NoError(t, err)

	assert.NotContains(t, string(got), "Old")
}

func TestRender_IndentedByDefault(t *testing.T) {
	got, err := Render(fetch.NewResultSet(), nil, Options{Mode: Overwrite})
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"head\": [],\n  \"chest\": [],\n  \"legs\": [],\n  \"back\": []\n}", string(got))
}

func TestRender_Patch(t *testing.T) {
	got, err := Render(capResult(t), []byte(`{"ignored":true}`), Options{Mode: Patch, Compact: true})
	require.NoError(t, err)

	assert.Equal(t, `[{"op":"add","path":"/head/-","value":`+capRecord+`}]`, string(got))
}

func TestRender_PatchOrderAndPaths(t *testing.T) {
	r := fetch.NewResultSet()
	require.NoError(t, r.Add(record(models.Back, "cape", "cape.back")))
	require.NoError(t, r.Add(record(models.Head, "cap", "cap.head")))
	require.NoError(t, r.Add(record(models.Legs, "pants", "pants.legs")))
	require.NoError(t, r.Add(record(models.Head, "helm", "helm.head")))

	got, err := Render(r, nil, Options{Mode: Patch})
	require.NoError(t, err)

	var ops []models.PatchOperation
	require.NoError(t, json.Unmarshal(got, &ops))
	require.Len(t, ops, r.Total())

	var files, paths []string
	for _, op := range ops {
		assert.Equal(t, "add", op.Op)
		assert.Equal(t, "/"+string(op.Value.Category)+"/-", op.Path)
		files = append(files, op.Value.FileName)
		paths = append(paths, op.Path)
	}
	assert.Equal(t, []string{"cap.head", "helm.head", "pants.legs", "cape.back"}, files)
	assert.Equal(t, []string{"/head/-", "/head/-", "/legs/-", "/back/-"}, paths)
}

func TestRender_PatchEmpty(t *testing.T) {
	got, err := Render(fetch.NewResultSet(), nil, Options{Mode: Patch, Compact: true})
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestRender_MergeUnionsArrays(t *testing.T) {
	existing := `{
		"head": [` + capRecord + `, {"name":"Old hat","category":"head","fileName":"old.head"}],
		"chest": [{"name":"Vest","price":1.50}],
		"legs": [],
		"back": [],
		"custom": {"version": 2}
	}`

	got, err := Render(capResult(t), []byte(existing), Options{Mode: Merge, Compact: true})
	require.NoError(t, err)

	doc, err := ParseDocument(got)
	require.NoError(t, err)
	assert.Equal(t, []string{"head", "chest", "legs", "back", "custom"}, doc.Keys())

	head, _ := doc.Get("head")
	heads := head.([]any)
	require.Len(t, heads, 2)
	assert.Equal(t, "Cap", heads[0].(map[string]any)["name"])
	assert.Equal(t, "Old hat", heads[1].(map[string]any)["name"])

	chest, _ := doc.Get("chest")
	require.Len(t, chest.([]any), 1)
	assert.Contains(t, string(got), `"price":1.50`)

	custom, _ := doc.Get("custom")
	assert.Equal(t, map[string]any{"version": json.Number("2")}, custom)
}

func TestRender_MergeKeepsRecordsDifferingByOneField(t *testing.T) {
	existing := `{"head":[` + strings.Replace(capRecord, `"foo.head"`, `"Foo.head"`, 1) + `],"chest":[],"legs":[],"back":[]}`

	got, err := Render(capResult(t), []byte(existing), Options{Mode: Merge, Compact: true})
	require.NoError(t, err)

	doc, err := ParseDocument(got)
	require.NoError(t, err)
	head, _ := doc.Get("head")
	assert.Len(t, head.([]any), 2)
}

func TestRender_MergeErrors(t *testing.T) {
	_, err := Render(capResult(t), nil, Options{Mode: Merge})
	assert.ErrorIs(t, err, ErrNoExisting)

	_, err = Render(capResult(t), []byte(`[1,2]`), Options{Mode: Merge})
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = Render(capResult(t), []byte(`{"head":`), Options{Mode: Merge})
	assert.Error(t, err)
}

func TestRender_UnknownMode(t *testing.T) {
	_, err := Render(fetch.NewResultSet(), nil, Options{Mode: Mode(9)})
	assert.Error(t, err)
	assert.Equal(t, "Mode(9)", Mode(9).String())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wardrobe.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, WriteFile(path, []byte(`{"head":[]}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"head":[]}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "nope", "out.json"), []byte("{}"))
	assert.Error(t, err)
}
