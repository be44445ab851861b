package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"synapnote/internal/model"
)

// HistoryCache keeps recently read conversation history in Redis, keyed by
// (user, note, session). A short-lived dirty marker suppresses re-caching
// while a chat turn is in flight.
type HistoryCache struct {
	client         *redisv9.Client
	historyTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewHistoryCache(client *redisv9.Client, historyTTL, dirtyMarkerTTL time.Duration) *HistoryCache {
	if historyTTL <= 0 {
		historyTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &HistoryCache{
		client:         client,
		historyTTL:     historyTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *HistoryCache) GetHistory(ctx context.Context, userID, noteID uint, sessionID string) ([]model.Conversation, bool, error) {
	raw, err := c.client.Get(ctx, c.historyKey(userID, noteID, sessionID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get history failed: %w", err)
	}

	var conversations []model.Conversation
	if err := json.Unmarshal([]byte(raw), &conversations); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached history failed: %w", err)
	}
	return conversations, true, nil
}

func (c *HistoryCache) SetHistory(ctx context.Context, userID, noteID uint, sessionID string, conversations []model.Conversation) error {
	payload, err := json.Marshal(conversations)
	if err != nil {
		return fmt.Errorf("marshal history cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.historyKey(userID, noteID, sessionID), payload, c.historyTTL).Err(); err != nil {
		return fmt.Errorf("redis set history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) DeleteHistory(ctx context.Context, userID, noteID uint, sessionID string) error {
	if err := c.client.Del(ctx, c.historyKey(userID, noteID, sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) MarkDirty(ctx context.Context, userID, noteID uint, sessionID string) error {
	if err := c.client.Set(ctx, c.dirtyKey(userID, noteID, sessionID), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) IsDirty(ctx context.Context, userID, noteID uint, sessionID string) (bool, error) {
	exists, err := c.client.Exists(ctx, c.dirtyKey(userID, noteID, sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *HistoryCache) historyKey(userID, noteID uint, sessionID string) string {
	return fmt.Sprintf("conversation:history:%d:%d:%s", userID, noteID, sessionID)
}

func (c *HistoryCache) dirtyKey(userID, noteID uint, sessionID string) string {
	return fmt.Sprintf("conversation:history:dirty:%d:%d:%s", userID, noteID, sessionID)
}
