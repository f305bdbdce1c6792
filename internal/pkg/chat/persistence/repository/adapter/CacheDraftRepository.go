package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cport "go-convo/internal/infrastructure/cache/port"
	chat "go-convo/internal/pkg/chat/application/domain"
	directory "go-convo/internal/pkg/directory/application/domain"
)

const draftKeyPrefix = "chat:draft:"

// CacheDraftRepository stores group drafts as JSON member lists with a
// sliding TTL. Abandoned dialogs expire on their own.
type CacheDraftRepository struct {
	cache cport.Cache
	ttl   time.Duration
}

func NewCacheDraftRepository(cache cport.Cache, ttl time.Duration) *CacheDraftRepository {
	return &CacheDraftRepository{cache: cache, ttl: ttl}
}

func draftKey(owner string) string { return draftKeyPrefix + owner }

func (r *CacheDraftRepository) Load(ctx context.Context, owner string) (chat.GroupDraft, error) {
	raw, err := r.cache.Get(ctx, draftKey(owner))
	if errors.Is(err, cport.ErrMiss) {
		return chat.GroupDraft{}, nil
	}
	if err != nil {
		return chat.GroupDraft{}, err
	}
	return decodeDraft(owner, raw)
}

func (r *CacheDraftRepository) Update(ctx context.Context, owner string, fn func(chat.GroupDraft) (chat.GroupDraft, error)) (chat.GroupDraft, error) {
	var stored chat.GroupDraft
	err := r.cache.Update(ctx, draftKey(owner), r.ttl, func(raw string, found bool) (string, error) {
		current := chat.GroupDraft{}
		if found {
			d, err := decodeDraft(owner, raw)
			if err != nil {
				return "", err
			}
			current = d
		}
		next, err := fn(current)
		if err != nil {
			return "", err
		}
		stored = next
		return encodeDraft(next)
	})
	if err != nil {
		return chat.GroupDraft{}, err
	}
	return stored, nil
}

func decodeDraft(owner, raw string) (chat.GroupDraft, error) {
	var members []directory.User
	if err := json.Unmarshal([]byte(raw), &members); err != nil {
		return chat.GroupDraft{}, fmt.Errorf("decode draft for %s: %w", owner, err)
	}
	return chat.NewGroupDraft(members...), nil
}

// encodeDraft returns "" for an empty draft so the key is dropped.
func encodeDraft(d chat.GroupDraft) (string, error) {
	if d.Len() == 0 {
		return "", nil
	}
	raw, err := json.Marshal(d.Members())
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (r *CacheDraftRepository) Discard(ctx context.Context, owner string) error {
	_, err := r.cache.Del(ctx, draftKey(owner))
	return err
}
