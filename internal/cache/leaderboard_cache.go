package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for the daily-challenge and
// all-time XP leaderboards.
type LeaderboardCache interface {
	SetDailyScore(ctx context.Context, day, playerID string, score int) error
	TopDaily(ctx context.Context, day string, limit int) ([]Entry, error)
	DailyRank(ctx context.Context, day, playerID string) (int64, error)
	AddXP(ctx context.Context, playerID string, xp int) error
	TopXP(ctx context.Context, limit int) ([]Entry, error)
}

// Entry represents a single leaderboard entry
type Entry struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

type leaderboardCache struct {
	client   *redis.Client
	dailyTTL time.Duration
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client:   client,
		dailyTTL: 48 * time.Hour, // Daily boards live for two days
	}
}

func (c *leaderboardCache) dailyKey(day string) string {
	return fmt.Sprintf("daily:%s:lb", day)
}

func (c *leaderboardCache) xpKey() string {
	return "players:xp"
}

func (c *leaderboardCache) SetDailyScore(ctx context.Context, day, playerID string, score int) error {
	key := c.dailyKey(day)
	// GT keeps the best attempt of the day
	if err := c.client.ZAddGT(ctx, key, redis.Z{
		Score:  float64(score),
		Member: playerID,
	}).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.dailyTTL).Err()
}

func (c *leaderboardCache) TopDaily(ctx context.Context, day string, limit int) ([]Entry, error) {
	return c.top(ctx, c.dailyKey(day), limit)
}

func (c *leaderboardCache) DailyRank(ctx context.Context, day, playerID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.dailyKey(day), playerID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}

func (c *leaderboardCache) AddXP(ctx context.Context, playerID string, xp int) error {
	return c.client.ZIncrBy(ctx, c.xpKey(), float64(xp), playerID).Err()
}

func (c *leaderboardCache) TopXP(ctx context.Context, limit int) ([]Entry, error) {
	return c.top(ctx, c.xpKey(), limit)
}

func (c *leaderboardCache) top(ctx context.Context, key string, limit int) ([]Entry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(results))
	for i, z := range results {
		entries[i] = Entry{
			PlayerID: z.Member.(string),
			Score:    int(z.Score),
			Rank:     i + 1,
		}
	}
	return entries, nil
}
