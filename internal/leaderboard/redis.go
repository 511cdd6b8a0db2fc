// Package leaderboard keeps a redis sorted set of token totals so ranked
// reads skip the database. The set is a cache: storage stays the source
// of truth and callers fall back to it when the cache is cold.
package leaderboard

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"tokentap/internal/game"
)

const (
	tokensKey = "lb:tokens"
	namesKey  = "lb:names"
)

type Cache struct {
	rdb *redis.Client
}

var _ game.LeaderboardCache = (*Cache)(nil)

func New(addr string) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr}))
}

func NewWithClient(client *redis.Client) *Cache {
	return &Cache{rdb: client}
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Record overwrites the player's score and display name. Tokens are
// absolute totals, not deltas, so replays of the same total are harmless.
func (c *Cache) Record(ctx context.Context, playerID int64, displayName string, tokens int64) error {
	member := strconv.FormatInt(playerID, 10)
	pipe := c.rdb.TxPipeline()
	pipe.ZAdd(ctx, tokensKey, redis.Z{Score: float64(tokens), Member: member})
	pipe.HSet(ctx, namesKey, member, displayName)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Cache) Top(ctx context.Context, n int) ([]game.LeaderboardRow, bool, error) {
	if n <= 0 {
		return nil, false, nil
	}
	scores, err := c.rdb.ZRevRangeWithScores(ctx, tokensKey, 0, int64(n)-1).Result()
	if err != nil {
		return nil, false, err
	}
	if len(scores) == 0 {
		return nil, false, nil
	}

	members := make([]string, len(scores))
	for i, z := range scores {
		members[i] = z.Member.(string)
	}
	names, err := c.rdb.HMGet(ctx, namesKey, members...).Result()
	if err != nil {
		return nil, false, err
	}

	rows := make([]game.LeaderboardRow, len(scores))
	for i, z := range scores {
		name, _ := names[i].(string)
		if name == "" {
			name = "player " + members[i]
		}
		rows[i] = game.LeaderboardRow{DisplayName: name, Tokens: int64(z.Score)}
	}
	return rows, true, nil
}
