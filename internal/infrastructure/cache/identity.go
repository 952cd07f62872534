package cache

import (
	"context"
	"strings"

	"profile-sync/internal/domain/profile"
)

const DefaultIdentityKey = "userId"

// IdentityCache persists the last signed-in user id across restarts.
type IdentityCache struct {
	store *Redis
	key   string
}

func NewIdentityCache(store *Redis, key string) *IdentityCache {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultIdentityKey
	}
	return &IdentityCache{store: store, key: key}
}

func (c *IdentityCache) GetIdentity(ctx context.Context) (profile.UserID, bool, error) {
	v, ok, err := c.store.GetString(ctx, c.key)
	if err != nil || !ok {
		return "", false, err
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false, nil
	}
	return profile.UserID(v), true, nil
}

// RememberIdentity is the sign-in write path; the sync controller only reads.
func (c *IdentityCache) RememberIdentity(ctx context.Context, id profile.UserID) error {
	v := strings.TrimSpace(id.String())
	if v == "" {
		return profile.ErrEmptyOwner
	}
	return c.store.SetString(ctx, c.key, v, 0)
}

// ForgetIdentity drops the cached identity on sign-out.
func (c *IdentityCache) ForgetIdentity(ctx context.Context) error {
	return c.store.Delete(ctx, c.key)
}
