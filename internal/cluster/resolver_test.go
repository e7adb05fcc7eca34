package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := New(map[string]string{
		"us-east": "https://us-east.api.example.com",
		"eu-west": "https://eu-west.api.example.com",
		"ap-south": "https://ap-south.api.example.com",
	}, "us-east")
	require.NoError(t, err)
	return r
}

func TestBaseURL_KnownKey(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	assert.Equal(t, "https://eu-west.api.example.com", r.BaseURL("eu-west").String())
}

func TestBaseURL_UnknownKeyFallsBackToDefault(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	assert.Equal(t, "https://us-east.api.example.com", r.BaseURL("mars-north").String())
}

func TestBaseURL_EmptyKeyFallsBackToDefault(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	assert.Equal(t, "https://us-east.api.example.com", r.BaseURL("").String())
}

func TestBaseURL_KeyNormalization(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	assert.Equal(t, "https://eu-west.api.example.com", r.BaseURL("  EU-West ").String())
}

func TestBaseURL_ReturnsCopy(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	u := r.BaseURL("us-east")
	u.Path = "/mutated"
	assert.Equal(t, "https://us-east.api.example.com", r.BaseURL("us-east").String())
}

func TestResolve_ReportsEffectiveKey(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	key, u := r.Resolve("nope")
	assert.Equal(t, "us-east", key)
	assert.Equal(t, "https://us-east.api.example.com", u.String())

	key, _ = r.Resolve("AP-SOUTH")
	assert.Equal(t, "ap-south", key)
}

func TestNew_RejectsBadTable(t *testing.T) {
	t.Parallel()

	_, err := New(nil, "us-east")
	require.Error(t, err)

	_, err = New(map[string]string{"us-east": "not a url"}, "us-east")
	require.Error(t, err)

	_, err = New(map[string]string{"us-east": "https://x.example.com"}, "eu-west")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default cluster")
}
