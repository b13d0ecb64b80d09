package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for the per-category
// rating leaderboards
type LeaderboardCache interface {
	UpdateScore(ctx context.Context, category, participantID string, rating float64) error
	GetTop(ctx context.Context, category string, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, category, participantID string) (int64, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	ParticipantID string  `json:"participant_id"`
	Rating        float64 `json:"rating"`
	Rank          int     `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) key(category string) string {
	return fmt.Sprintf("lb:%s", category)
}

func (c *leaderboardCache) UpdateScore(ctx context.Context, category, participantID string, rating float64) error {
	return c.client.ZAdd(ctx, c.key(category), redis.Z{
		Score:  rating,
		Member: participantID,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, category string, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(category), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			ParticipantID: z.Member.(string),
			Rating:        z.Score,
			Rank:          i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, category, participantID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(category), participantID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
