package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/redis/go-redis/v9"
)

// envelope is what actually gets cached: the serialized result plus the
// moment it was fetched from the store. The timestamp makes expiry an
// explicit check instead of a property of whichever tier answered.
type envelope struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Data      json.RawMessage `json:"data"`
}

// TableCache memoizes table reads for a bounded interval. Lookups hit a
// local in-process tier first and fall back to Redis, so multiple
// service instances share one remote copy. The remote tier is optional;
// with no Redis client the cache runs local-only.
type TableCache struct {
	local  *ccache.Cache[envelope]
	remote *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// New builds a TableCache holding at most maxSize local entries, each
// valid for ttl. remote may be nil.
func New(maxSize int64, ttl time.Duration, remote *redis.Client) *TableCache {
	return &TableCache{
		local:  ccache.New(ccache.Configure[envelope]().MaxSize(maxSize)),
		remote: remote,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Get returns the cached payload for key, or ok=false when the key is
// absent or stale in both tiers. A remote hit is copied back into the
// local tier.
func (c *TableCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if item := c.local.Get(key); item != nil && !item.Expired() {
		env := item.Value()
		if c.fresh(env) {
			return env.Data, true
		}
	}

	if c.remote == nil {
		return nil, false
	}

	payload, err := c.remote.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache: redis GET %s: %v", key, err)
		}
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		log.Printf("cache: corrupt entry for %s: %v", key, err)
		return nil, false
	}
	if !c.fresh(env) {
		return nil, false
	}

	c.local.Set(key, env, c.ttl)
	return env.Data, true
}

// Set stores the payload in both tiers stamped with the current time.
func (c *TableCache) Set(ctx context.Context, key string, data []byte) {
	env := envelope{FetchedAt: c.now(), Data: data}
	c.local.Set(key, env, c.ttl)

	if c.remote == nil {
		return
	}
	payload, err := json.Marshal(env)
	if err != nil {
		log.Printf("cache: marshal entry for %s: %v", key, err)
		return
	}
	if err := c.remote.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Printf("cache: redis SET %s: %v", key, err)
	}
}

// Delete drops the key from both tiers.
func (c *TableCache) Delete(ctx context.Context, key string) {
	c.local.Delete(key)

	if c.remote == nil {
		return
	}
	if err := c.remote.Del(ctx, key).Err(); err != nil {
		log.Printf("cache: redis DEL %s: %v", key, err)
	}
}

func (c *TableCache) fresh(env envelope) bool {
	return c.now().Sub(env.FetchedAt) < c.ttl
}
