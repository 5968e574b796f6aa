package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/animula-auth/internal/config"
	"github.com/iliyamo/animula-auth/internal/logging"
	"github.com/iliyamo/animula-auth/internal/model"
)

// CachedProfiles is a read-through Redis cache in front of FindProfileByID.
// Insert and FindByEmail pass straight to the wrapped store so credential
// checks always see the database.  Redis failures degrade to a cache miss.
type CachedProfiles struct {
	UserStore
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	log    logging.Logger
}

// NewCachedProfiles wraps next with the profile cache.  When caching is
// disabled or no client is available, next is returned unchanged.
func NewCachedProfiles(next UserStore, rdb *redis.Client, cfg config.CacheConfig, log logging.Logger) UserStore {
	if !cfg.Enabled || rdb == nil {
		return next
	}
	return &CachedProfiles{UserStore: next, rdb: rdb, ttl: cfg.TTL, prefix: cfg.Prefix, log: log}
}

func (c *CachedProfiles) key(id string) string {
	return c.prefix + ":profile:" + id
}

func (c *CachedProfiles) FindProfileByID(ctx context.Context, id string) (model.Profile, error) {
	key := c.key(id)
	bs, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p model.Profile
		if jerr := json.Unmarshal(bs, &p); jerr == nil {
			return p, nil
		}
		c.log.Warn(ctx, "profile cache: corrupt entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.log.Warn(ctx, "profile cache: get failed", "key", key, "err", err)
	}

	p, err := c.UserStore.FindProfileByID(ctx, id)
	if err != nil {
		return model.Profile{}, err
	}
	if payload, jerr := json.Marshal(p); jerr == nil {
		if serr := c.rdb.Set(ctx, key, payload, c.ttl).Err(); serr != nil {
			c.log.Warn(ctx, "profile cache: set failed", "key", key, "err", serr)
		}
	}
	return p, nil
}
