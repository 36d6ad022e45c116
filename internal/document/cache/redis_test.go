package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctrace/internal/document"
	"doctrace/pkg/testutil"
)

func newSnapshot(t *testing.T) (*Snapshot, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSnapshot(client, time.Hour, testutil.Logger()), mr
}

func sampleDocs() []document.Document {
	return []document.Document{
		{
			ID:      "INQ20260820001",
			Date:    time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
			Type:    document.TypeOutgoing,
			Agency:  "Ministry of Transport",
			Subject: "Road maintenance budget inquiry",
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap, _ := newSnapshot(t)
	ctx := context.Background()

	_, ok := snap.Get(ctx)
	assert.False(t, ok, "empty cache misses")

	snap.Set(ctx, sampleDocs())

	docs, ok := snap.Get(ctx)
	require.True(t, ok)
	require.Len(t, docs, 1)
	assert.Equal(t, "INQ20260820001", docs[0].ID)
	assert.Equal(t, document.TypeOutgoing, docs[0].Type)
}

func TestSnapshotInvalidate(t *testing.T) {
	snap, _ := newSnapshot(t)
	ctx := context.Background()

	snap.Set(ctx, sampleDocs())
	snap.Invalidate(ctx)

	_, ok := snap.Get(ctx)
	assert.False(t, ok)
}

func TestSnapshotExpiresWithTTL(t *testing.T) {
	snap, mr := newSnapshot(t)
	ctx := context.Background()

	snap.Set(ctx, sampleDocs())
	mr.FastForward(time.Hour + time.Minute)

	_, ok := snap.Get(ctx)
	assert.False(t, ok, "snapshot expires after the TTL")
}

func TestSnapshotCorruptPayloadDegradesToMiss(t *testing.T) {
	snap, mr := newSnapshot(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("doctrace:documents:snapshot", "{not json"))

	_, ok := snap.Get(ctx)
	assert.False(t, ok)
	assert.False(t, mr.Exists("doctrace:documents:snapshot"), "corrupt payload is dropped")
}

func TestSnapshotRedisDownDegradesToMiss(t *testing.T) {
	snap, mr := newSnapshot(t)
	ctx := context.Background()

	snap.Set(ctx, sampleDocs())
	mr.Close()

	_, ok := snap.Get(ctx)
	assert.False(t, ok, "redis failure reads as a miss, never an error")
}
