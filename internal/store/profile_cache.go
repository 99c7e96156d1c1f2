package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/devndesk/DevReady/internal/profile"
)

const (
	// UserKey holds the serialized profile record.
	UserKey = "devready_user"
	// RecentLoginKey is the one-shot marker set right after a login.
	RecentLoginKey = "devready_recent_login"
)

// ProfileCache is the single persisted slot holding the user's profile.
type ProfileCache struct {
	kv KVRepo
}

// NewProfileCache creates a ProfileCache on top of kv.
func NewProfileCache(kv KVRepo) *ProfileCache {
	return &ProfileCache{kv: kv}
}

// Load returns the cached record, or nil when nothing is cached.
func (c *ProfileCache) Load(ctx context.Context) (*profile.Record, error) {
	raw, err := c.kv.Get(ctx, UserKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var rec profile.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}
	return &rec, nil
}

// Save replaces the cached record in one write.
func (c *ProfileCache) Save(ctx context.Context, rec profile.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return c.kv.Set(ctx, UserKey, raw)
}

// Delete removes the cached profile and any pending login marker.
func (c *ProfileCache) Delete(ctx context.Context) error {
	if err := c.kv.Delete(ctx, UserKey); err != nil {
		return err
	}
	return c.kv.Delete(ctx, RecentLoginKey)
}

// MarkRecentLogin sets the one-shot recent-login marker.
func (c *ProfileCache) MarkRecentLogin(ctx context.Context) error {
	return c.kv.Set(ctx, RecentLoginKey, []byte("true"))
}

// ConsumeRecentLogin clears the marker and reports whether it was set.
func (c *ProfileCache) ConsumeRecentLogin(ctx context.Context) (bool, error) {
	return c.kv.Take(ctx, RecentLoginKey)
}
