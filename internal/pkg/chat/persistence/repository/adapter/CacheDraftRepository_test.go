package adapter

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	cport "go-convo/internal/infrastructure/cache/port"
	chat "go-convo/internal/pkg/chat/application/domain"
	directory "go-convo/internal/pkg/directory/application/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", cport.ErrMiss
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Del(_ context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func (m *memCache) Update(_ context.Context, key string, ttl time.Duration, fn cport.UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, found := m.data[key]
	next, err := fn(cur, found)
	if err != nil {
		return err
	}
	if next == "" {
		delete(m.data, key)
		return nil
	}
	m.data[key] = next
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Ping(context.Context) error { return nil }
func (m *memCache) Close() error               { return nil }

func TestCacheDraftRepository(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	repo := NewCacheDraftRepository(cache, 15*time.Minute)

	d, err := repo.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())

	draft := chat.NewGroupDraft(
		directory.User{Username: "bob", DisplayName: "Bob Lee"},
		directory.User{Username: "carol", DisplayName: "Carol"},
	)
	stored, err := repo.Update(ctx, "alice", func(chat.GroupDraft) (chat.GroupDraft, error) { return draft, nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, stored.Usernames())
	assert.Equal(t, 15*time.Minute, cache.ttls["chat:draft:alice"])

	d, err = repo.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, d.Usernames())
	assert.Equal(t, "Bob Lee", d.Members()[0].DisplayName)

	// drafts are per user
	d, err = repo.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())

	_, err = repo.Update(ctx, "alice", func(d chat.GroupDraft) (chat.GroupDraft, error) {
		return d.Without("bob").Without("carol"), nil
	})
	require.NoError(t, err)
	_, ok := cache.data["chat:draft:alice"]
	assert.False(t, ok)
}

func TestCacheDraftRepository_CorruptEntry(t *testing.T) {
	cache := newMemCache()
	cache.data["chat:draft:alice"] = "{oops"
	repo := NewCacheDraftRepository(cache, time.Minute)

	_, err := repo.Load(context.Background(), "alice")
	assert.Error(t, err)
}

func TestCacheDraftRepository_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheDraftRepository(newMemCache(), time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := directory.User{Username: fmt.Sprintf("user%d", i)}
			_, err := repo.Update(ctx, "alice", func(d chat.GroupDraft) (chat.GroupDraft, error) { return d.With(u), nil })
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	d, err := repo.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Len())
}

func TestCacheDraftRepository_UpdateCorruptEntry(t *testing.T) {
	cache := newMemCache()
	cache.data["chat:draft:alice"] = "{oops"
	repo := NewCacheDraftRepository(cache, time.Minute)

	_, err := repo.Update(context.Background(), "alice", func(d chat.GroupDraft) (chat.GroupDraft, error) { return d, nil })
	assert.Error(t, err)
	assert.Equal(t, "{oops", cache.data["chat:draft:alice"])
}
