package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sakif/team-directory/internal/model"
	"github.com/sakif/team-directory/internal/repository"
)

// Profiles wraps a ProfileRepository with a cache for GetProfile.
//
// Only single-profile reads are cached. The listing always goes to the
// store: new accounts appear there without waiting for a TTL. Cache errors
// are logged and never fail a request.
//
// READ VS WRITE ORDERING
// A reader that misses fills the key with Add (SET NX), while UpdateProfile
// overwrites it with Set. A slow reader holding the pre-update row therefore
// cannot replace the value an update just wrote:
//
//	reader: miss, read old row
//	writer: update row, Set new value
//	reader: Add old value -> key exists, dropped
//
// If the writer's Set fails the key is deleted instead, and the same Add
// rule applies to the next reader.
type Profiles struct {
	next   repository.ProfileRepository
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

var _ repository.ProfileRepository = (*Profiles)(nil)

// NewProfiles returns a caching ProfileRepository. A nil store disables
// caching and every call goes straight to next.
func NewProfiles(next repository.ProfileRepository, store Store, ttl time.Duration, logger *slog.Logger) *Profiles {
	return &Profiles{next: next, store: store, ttl: ttl, logger: logger}
}

func profileKey(id string) string {
	return "profile:" + id
}

func (c *Profiles) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	return c.next.ListProfiles(ctx)
}

func (c *Profiles) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	if c.store == nil {
		return c.next.GetProfile(ctx, id)
	}

	key := profileKey(id)
	raw, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("profile cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	case ok:
		var p model.Profile
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
		c.logger.Warn("profile cache entry undecodable", slog.String("key", key))
	}

	p, err := c.next.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(p); err == nil {
		if _, err := c.store.Add(ctx, key, raw, c.ttl); err != nil {
			c.logger.Warn("profile cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return p, nil
}

func (c *Profiles) UpdateProfile(ctx context.Context, id string, upd model.ProfileUpdate) (*model.Profile, error) {
	p, err := c.next.UpdateProfile(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if c.store != nil {
		c.refresh(ctx, p)
	}
	return p, nil
}

// refresh stores the just-written profile, falling back to dropping the key.
func (c *Profiles) refresh(ctx context.Context, p *model.Profile) {
	key := profileKey(p.ID)
	raw, err := json.Marshal(p)
	if err == nil {
		err = c.store.Set(ctx, key, raw, c.ttl)
	}
	if err == nil {
		return
	}
	c.logger.Warn("profile cache refresh failed", slog.String("key", key), slog.String("error", err.Error()))
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.Warn("profile cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
