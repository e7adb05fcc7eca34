package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstString(t *testing.T) {
	t.Parallel()

	raw := map[string]any{"a": "", "b": nil, "c": "  hit  ", "d": "later"}
	assert.Equal(t, "hit", FirstString(raw, "a", "b", "c", "d"))
	assert.Equal(t, "", FirstString(raw, "missing"))
	assert.Equal(t, "12", FirstString(map[string]any{"n": float64(12)}, "n"))
	assert.Equal(t, "1.5", FirstString(map[string]any{"n": 1.5}, "n"))
	assert.Equal(t, "true", FirstString(map[string]any{"b": true}, "b"))
}

func TestFirstBool(t *testing.T) {
	t.Parallel()

	got, ok := FirstBool(map[string]any{"active": false}, "active")
	assert.True(t, ok)
	assert.False(t, got)

	got, ok = FirstBool(map[string]any{"active": "True"}, "active")
	assert.True(t, ok)
	assert.True(t, got)

	_, ok = FirstBool(map[string]any{"active": "maybe"}, "active")
	assert.False(t, ok)

	_, ok = FirstBool(map[string]any{}, "active")
	assert.False(t, ok)
}

func TestFirstDate_SkipsUnparseableCandidates(t *testing.T) {
	t.Parallel()

	raw := map[string]any{"createdAt": "garbage", "createdDate": "2021-06-15"}
	assert.Equal(t, "2021-06-15T00:00:00.000Z", FirstDate(raw, "createdAt", "createdDate"))
	assert.Equal(t, "", FirstDate(raw, "missing"))
}

func TestExtras(t *testing.T) {
	t.Parallel()

	raw := map[string]any{"id": "1", "kept": true}
	extras := Extras(raw, "id")
	assert.Equal(t, map[string]any{"kept": true}, extras)

	assert.Nil(t, Extras(map[string]any{"id": "1"}, "id"))
}

func TestFoldName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cafe del mar", FoldName("  Café   del MAR "))
	assert.Equal(t, FoldName("Über Goods"), FoldName("uber goods"))
}
