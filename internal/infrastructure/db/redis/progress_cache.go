package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studybridge/apply-platform/internal/core/ports"
)

const progressTTL = 15 * time.Minute

// ProgressCache stores questionnaire progress snapshots in Redis so the
// progress endpoint, polled on every wizard render, does not hit MongoDB
// each time. Entries expire after progressTTL and are invalidated on every
// profile write. Key format: progress:<user_id>
type ProgressCache struct {
	client *redis.Client
}

// NewProgressCache creates a ProgressCache wrapping the given Redis client.
func NewProgressCache(client *redis.Client) *ProgressCache {
	return &ProgressCache{client: client}
}

// Get returns the cached snapshot, or (nil, nil) on a miss.
func (p *ProgressCache) Get(ctx context.Context, userID string) (*ports.Progress, error) {
	raw, err := p.client.Get(ctx, p.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("progress cache get: %w", err)
	}

	var progress ports.Progress
	if err := json.Unmarshal(raw, &progress); err != nil {
		return nil, fmt.Errorf("progress cache decode: %w", err)
	}
	return &progress, nil
}

// Set stores the snapshot with the cache TTL.
func (p *ProgressCache) Set(ctx context.Context, userID string, progress *ports.Progress) error {
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("progress cache encode: %w", err)
	}
	return p.client.Set(ctx, p.key(userID), raw, progressTTL).Err()
}

// Invalidate drops the snapshot after a profile write.
func (p *ProgressCache) Invalidate(ctx context.Context, userID string) error {
	return p.client.Del(ctx, p.key(userID)).Err()
}

func (p *ProgressCache) key(userID string) string {
	return "progress:" + userID
}
