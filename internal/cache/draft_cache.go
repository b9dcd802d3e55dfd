package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"continuity-api/internal/model"
)

// DraftCache stores autosaved per-question drafts in Redis, one hash
// per assessment. Drafts are UI working state, not scored responses;
// they expire if the user walks away.
type DraftCache interface {
	SetDraft(ctx context.Context, assessmentID string, resp *model.Response) error
	GetDraft(ctx context.Context, assessmentID, questionID string) (*model.Response, error)
	GetAllDrafts(ctx context.Context, assessmentID string) (model.ResponseSet, error)
	DeleteDrafts(ctx context.Context, assessmentID string, questionIDs []string) error
	Clear(ctx context.Context, assessmentID string) error
}

type draftCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftCache creates a new draft cache
func NewDraftCache(client *redis.Client) DraftCache {
	return &draftCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *draftCache) key(assessmentID string) string {
	return fmt.Sprintf("assessment:%s:drafts", assessmentID)
}

func (c *draftCache) SetDraft(ctx context.Context, assessmentID string, resp *model.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	key := c.key(assessmentID)
	if err := c.client.HSet(ctx, key, resp.QuestionID, data).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *draftCache) GetDraft(ctx context.Context, assessmentID, questionID string) (*model.Response, error) {
	data, err := c.client.HGet(ctx, c.key(assessmentID), questionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp model.Response
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *draftCache) GetAllDrafts(ctx context.Context, assessmentID string) (model.ResponseSet, error) {
	entries, err := c.client.HGetAll(ctx, c.key(assessmentID)).Result()
	if err != nil {
		return nil, err
	}
	set := make(model.ResponseSet, len(entries))
	for qid, data := range entries {
		var resp model.Response
		if err := json.Unmarshal([]byte(data), &resp); err != nil {
			continue // skip corrupt entries
		}
		set[qid] = resp
	}
	return set, nil
}

func (c *draftCache) DeleteDrafts(ctx context.Context, assessmentID string, questionIDs []string) error {
	if len(questionIDs) == 0 {
		return nil
	}
	return c.client.HDel(ctx, c.key(assessmentID), questionIDs...).Err()
}

func (c *draftCache) Clear(ctx context.Context, assessmentID string) error {
	return c.client.Del(ctx, c.key(assessmentID)).Err()
}
