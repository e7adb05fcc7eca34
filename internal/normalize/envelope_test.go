package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, payload string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(payload), &v))
	return v
}

func TestUnwrap_EquivalentWrapperShapes(t *testing.T) {
	t.Parallel()

	hints := []string{"merchants"}
	shapes := []string{
		`[{"id":"m1"},{"id":"m2"}]`,
		`{"content":[{"id":"m1"},{"id":"m2"}]}`,
		`{"data":[{"id":"m1"},{"id":"m2"}]}`,
		`{"data":{"content":[{"id":"m1"},{"id":"m2"}]}}`,
		`{"merchants":[{"id":"m1"},{"id":"m2"}]}`,
	}
	for _, shape := range shapes {
		got := Unwrap(decode(t, shape), hints)
		require.Len(t, got, 2, "shape %s", shape)
		first, ok := got[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "m1", first["id"], "shape %s", shape)
	}
}

func TestUnwrap_JSONEncodedString(t *testing.T) {
	t.Parallel()

	got := Unwrap(`[{"id":1}]`, nil)
	require.Len(t, got, 1)
}

func TestUnwrap_OpaqueString(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Unwrap("not json at all", nil))
}

func TestUnwrap_ProbeOrderIsPriority(t *testing.T) {
	t.Parallel()

	// Both "data" and the hint key hold arrays; "data" must win.
	raw := decode(t, `{"data":[{"id":"from-data"}],"merchants":[{"id":"from-hint"}]}`)
	got := Unwrap(raw, []string{"merchants"})
	require.Len(t, got, 1)
	assert.Equal(t, "from-data", got[0].(map[string]any)["id"])
}

func TestUnwrap_SingleRecordBecomesSingleton(t *testing.T) {
	t.Parallel()

	got := Unwrap(decode(t, `{"id":"m1","name":"Acme"}`), nil)
	require.Len(t, got, 1)

	got = Unwrap(decode(t, `{"merchantId":"m1"}`), nil)
	require.Len(t, got, 1)
}

func TestUnwrap_SingleRecordUnderWrapper(t *testing.T) {
	t.Parallel()

	got := Unwrap(decode(t, `{"data":{"id":"m1","name":"Acme"}}`), nil)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].(map[string]any)["id"])
}

func TestUnwrap_NothingFoundIsEmpty(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{`{}`, `{"unrelated":true}`, `42`, `null`, `"plain"`} {
		assert.Empty(t, Unwrap(decode(t, payload), []string{"merchants"}), "payload %s", payload)
	}
}

func TestUnwrapOne(t *testing.T) {
	t.Parallel()

	rec := UnwrapOne(decode(t, `{"data":{"content":[{"id":"m1"}]}}`), nil)
	require.NotNil(t, rec)
	assert.Equal(t, "m1", rec["id"])

	assert.Nil(t, UnwrapOne(decode(t, `{}`), nil))
}

func TestAsObject(t *testing.T) {
	t.Parallel()

	obj := AsObject(decode(t, `{"id":"x"}`))
	require.NotNil(t, obj)

	obj = AsObject(`{"id":"x"}`)
	require.NotNil(t, obj)
	assert.Equal(t, "x", obj["id"])

	assert.Nil(t, AsObject("nope"))
	assert.Nil(t, AsObject(3.14))
}
