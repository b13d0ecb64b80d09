package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shark-krahs/game-platform/internal/model"
)

// ActiveGame points a participant at the session they are currently
// playing, so a reconnect can land back in the same game.
type ActiveGame struct {
	SessionID string         `json:"session_id"`
	GameType  model.GameType `json:"game_type"`
}

type ActiveGameCache interface {
	Set(ctx context.Context, participantID string, ref ActiveGame) error
	Get(ctx context.Context, participantID string) (*ActiveGame, error)
	Delete(ctx context.Context, participantID string) error
}

type activeGameCache struct {
	client *redis.Client
}

func NewActiveGameCache(client *redis.Client) ActiveGameCache {
	return &activeGameCache{
		client: client,
	}
}

func (c *activeGameCache) Set(ctx context.Context, participantID string, ref ActiveGame) error {
	data, err := json.Marshal(ref)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "active:"+participantID, data, 24*time.Hour).Err()
}

func (c *activeGameCache) Get(ctx context.Context, participantID string) (*ActiveGame, error) {
	data, err := c.client.Get(ctx, "active:"+participantID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // No active game
		}
		return nil, err
	}
	var ref ActiveGame
	err = json.Unmarshal([]byte(data), &ref)
	return &ref, err
}

func (c *activeGameCache) Delete(ctx context.Context, participantID string) error {
	return c.client.Del(ctx, "active:"+participantID).Err()
}
