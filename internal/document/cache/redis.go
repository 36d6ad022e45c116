// Package cache provides the redis-backed snapshot cache for the
// recent-documents listing. Cache misses and redis failures both degrade to
// a fresh scan; the cache can only ever make reads cheaper, never wrong
// writes.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"doctrace/internal/document"
)

const snapshotKey = "doctrace:documents:snapshot"

// Snapshot caches one full-scan result under a TTL. Every document write
// invalidates it, so staleness is bounded by the TTL and only spans
// concurrent external writers.
type Snapshot struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewSnapshot(client *redis.Client, ttl time.Duration, log *slog.Logger) *Snapshot {
	return &Snapshot{client: client, ttl: ttl, log: log}
}

func (s *Snapshot) Get(ctx context.Context) ([]document.Document, bool) {
	payload, err := s.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.log.WarnContext(ctx, "snapshot cache read failed", "error", err)
		return nil, false
	}
	var docs []document.Document
	if err := json.Unmarshal(payload, &docs); err != nil {
		s.log.WarnContext(ctx, "snapshot cache payload corrupt, dropping", "error", err)
		s.Invalidate(ctx)
		return nil, false
	}
	return docs, true
}

func (s *Snapshot) Set(ctx context.Context, docs []document.Document) {
	payload, err := json.Marshal(docs)
	if err != nil {
		s.log.WarnContext(ctx, "snapshot cache encode failed", "error", err)
		return
	}
	if err := s.client.Set(ctx, snapshotKey, payload, s.ttl).Err(); err != nil {
		s.log.WarnContext(ctx, "snapshot cache write failed", "error", err)
	}
}

func (s *Snapshot) Invalidate(ctx context.Context) {
	if err := s.client.Del(ctx, snapshotKey).Err(); err != nil {
		s.log.WarnContext(ctx, "snapshot cache invalidation failed", "error", err)
	}
}
