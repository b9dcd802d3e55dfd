package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"continuity-api/internal/model"
)

// ProgressCache keeps the last computed progress snapshot per
// assessment so dashboards can read it without recomputing.
type ProgressCache interface {
	Set(ctx context.Context, snapshot *model.ProgressSnapshot) error
	Get(ctx context.Context, assessmentID string) (*model.ProgressSnapshot, error)
	Delete(ctx context.Context, assessmentID string) error
}

type progressCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProgressCache creates a new progress cache
func NewProgressCache(client *redis.Client) ProgressCache {
	return &progressCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *progressCache) Set(ctx context.Context, snapshot *model.ProgressSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "progress:"+snapshot.AssessmentID, data, c.ttl).Err()
}

func (c *progressCache) Get(ctx context.Context, assessmentID string) (*model.ProgressSnapshot, error) {
	data, err := c.client.Get(ctx, "progress:"+assessmentID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snapshot model.ProgressSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *progressCache) Delete(ctx context.Context, assessmentID string) error {
	return c.client.Del(ctx, "progress:"+assessmentID).Err()
}
