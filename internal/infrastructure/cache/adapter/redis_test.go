package adapter

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go-convo/internal/infrastructure/cache/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	c, err := NewRedisAdapter(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_GetSetDel(t *testing.T) {
	c := openTestRedis(t)
	ctx := context.Background()
	key := "test:cache:" + t.Name()
	t.Cleanup(func() { _, _ = c.Del(ctx, key) })

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, port.ErrMiss)

	require.NoError(t, c.Set(ctx, key, "v1", time.Minute))
	v, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	n, err := c.Del(ctx, key)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRedisCache_UpdateSerializesWriters(t *testing.T) {
	c := openTestRedis(t)
	ctx := context.Background()
	key := "test:cache:" + t.Name()
	_, _ = c.Del(ctx, key)
	t.Cleanup(func() { _, _ = c.Del(ctx, key) })

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := c.Update(ctx, key, time.Minute, func(cur string, found bool) (string, error) {
				item := string(rune('a' + i))
				if !found {
					return item, nil
				}
				return cur + "," + item, nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	v, err := c.Get(ctx, key)
	require.NoError(t, err)
	items := strings.Split(v, ",")
	sort.Strings(items)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h"}, items)
}

func TestRedisCache_UpdateEmptyDeletes(t *testing.T) {
	c := openTestRedis(t)
	ctx := context.Background()
	key := "test:cache:" + t.Name()
	require.NoError(t, c.Set(ctx, key, "x", time.Minute))

	require.NoError(t, c.Update(ctx, key, time.Minute, func(string, bool) (string, error) { return "", nil }))
	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, port.ErrMiss)
}
