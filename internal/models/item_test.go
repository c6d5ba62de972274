package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, ok := ParseCategory(string(c))
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}

	for _, ext := range []string{"HEAD", "Chest", "feet", "", "head "} {
		_, ok := ParseCategory(ext)
		assert.False(t, ok, ext)
	}
}

func TestCategoriesOrder(t *testing.T) {
	assert.Equal(t, []Category{Head, Chest, Legs, Back}, Categories())
}

func TestRecordID_Stable(t *testing.T) {
	a := RecordID(Head, "/items/", "cap.head")
	b := RecordID(Head, "/items/", "cap.head")
	c := RecordID(Head, "/items/", "Cap.head")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36)
	assert.Equal(t, a, ItemRecord{Category: Head, Path: "/items/", FileName: "cap.head"}.ID())
}

func TestAddOperation(t *testing.T) {
	op := AddOperation(ItemRecord{Category: Legs, FileName: "pants.legs"})

	assert.Equal(t, "add", op.Op)
	assert.Equal(t, "/legs/-", op.Path)
	assert.Equal(t, "pants.legs", op.Value.FileName)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Cap", ItemRecord{Name: json.RawMessage(`"Cap"`)}.DisplayName())
	assert.Equal(t, "", ItemRecord{Name: json.RawMessage(`12`)}.DisplayName())
	assert.Equal(t, "", ItemRecord{}.DisplayName())
	assert.Equal(t, "cap.png", ItemRecord{Icon: json.RawMessage(`"cap.png"`)}.IconName())
}
