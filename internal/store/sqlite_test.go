package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversehq/merchant-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteAppendAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recs := []model.AuditRecord{
		{Entity: "merchant", EntityID: "m1", Cluster: "us-east", Action: model.AuditCreate, Success: true},
		{Entity: "merchant", EntityID: "m2", Cluster: "eu-west", Action: model.AuditDelete, Success: false, Error: "status 409"},
		{Entity: "prompt", EntityID: "p1", Cluster: "us-east", Action: model.AuditUpdate, Success: true},
	}
	for _, rec := range recs {
		require.NoError(t, s.Append(ctx, rec))
	}

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, rec := range all {
		assert.NotEmpty(t, rec.ID, "id assigned on append")
		assert.False(t, rec.At.IsZero(), "timestamp assigned on append")
	}

	merchants, err := s.List(ctx, Filter{Entity: "merchant"})
	require.NoError(t, err)
	assert.Len(t, merchants, 2)

	usEast, err := s.List(ctx, Filter{Cluster: "us-east"})
	require.NoError(t, err)
	assert.Len(t, usEast, 2)

	deletes, err := s.List(ctx, Filter{Action: model.AuditDelete})
	require.NoError(t, err)
	require.Len(t, deletes, 1)
	assert.Equal(t, "m2", deletes[0].EntityID)
	assert.False(t, deletes[0].Success)
	assert.Equal(t, "status 409", deletes[0].Error)
}

func TestSQLiteListSinceAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := model.AuditRecord{Entity: "merchant", EntityID: "old", Action: model.AuditCreate,
		At: time.Now().UTC().Add(-48 * time.Hour), Success: true}
	recent := model.AuditRecord{Entity: "merchant", EntityID: "recent", Action: model.AuditCreate,
		Success: true}
	require.NoError(t, s.Append(ctx, old))
	require.NoError(t, s.Append(ctx, recent))

	got, err := s.List(ctx, Filter{Since: time.Now().UTC().Add(-time.Hour)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "recent", got[0].EntityID)

	limited, err := s.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "recent", limited[0].EntityID, "newest first")
}

func TestSQLiteStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, rec := range []model.AuditRecord{
		{Entity: "merchant", EntityID: "m1", Action: model.AuditCreate, Success: true},
		{Entity: "merchant", EntityID: "m2", Action: model.AuditUpdate, Success: false, Error: "boom"},
		{Entity: "prompt", EntityID: "p1", Action: model.AuditCreate, Success: true},
	} {
		require.NoError(t, s.Append(ctx, rec))
	}

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(2), stats.ByEntity["merchant"])
	assert.Equal(t, int64(1), stats.ByEntity["prompt"])
	assert.Equal(t, int64(2), stats.ByAction["create"])
}

func TestSQLiteStatsEmpty(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, int64(0), stats.Failed)
}

func TestOpenDefaultsToSQLite(t *testing.T) {
	s, err := Open(context.Background(), "", ":memory:", "")
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*SQLiteStore)
	assert.True(t, ok)
}
