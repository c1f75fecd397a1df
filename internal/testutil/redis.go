package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient is an in-memory stand-in for xredis.Client. Only the sorted
// set surface keeps real semantics because that is what the leaderboard
// needs.
type MockRedisClient struct {
	mutex sync.Mutex

	values     map[string]string
	sortedSets map[string]map[string]float64
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		values:     make(map[string]string),
		sortedSets: make(map[string]map[string]float64),
	}
}

func (c *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.values[key]; ok {
		return true, nil
	}

	_, ok := c.sortedSets[key]
	return ok, nil
}

func (c *MockRedisClient) Del(ctx context.Context, keys ...string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, key := range keys {
		delete(c.values, key)
		delete(c.sortedSets, key)
	}

	return nil
}

func (c *MockRedisClient) ZAdd(ctx context.Context, key string, z redis.Z) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.sortedSet(key)[z.Member.(string)] = z.Score
	return nil
}

func (c *MockRedisClient) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.sortedSet(key)[member] += float64(incr)
	return nil
}

func (c *MockRedisClient) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ranked := c.ranked(key)
	if offset >= len(ranked) {
		return nil, nil
	}

	ranked = ranked[offset:]
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

func (c *MockRedisClient) ZRevRank(ctx context.Context, key string, member string) (uint64, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for i, z := range c.ranked(key) {
		if z.Member == member {
			return uint64(i), nil
		}
	}

	return 0, redis.Nil
}

func (c *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	value, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}

	return value, nil
}

func (c *MockRedisClient) Set(ctx context.Context, key, value string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.values[key] = value
	return nil
}

func (c *MockRedisClient) sortedSet(key string) map[string]float64 {
	if _, ok := c.sortedSets[key]; !ok {
		c.sortedSets[key] = make(map[string]float64)
	}

	return c.sortedSets[key]
}

func (c *MockRedisClient) ranked(key string) []redis.Z {
	var ranked []redis.Z
	for member, score := range c.sortedSets[key] {
		ranked = append(ranked, redis.Z{Member: member, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}

		return ranked[i].Member.(string) > ranked[j].Member.(string)
	})

	return ranked
}
