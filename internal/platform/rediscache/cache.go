package rediscache

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/moviegraph-backend/internal/platform/envutil"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
)

// Cache remembers ids that are confirmed present in the stores so repeated
// gate probes for hot reference entities (genres, languages, big studios)
// skip the round trip. Only positive answers are cached: a miss always falls
// through to the store, and cache failures degrade to a miss.
type Cache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewFromEnv returns (nil, nil) when REDIS_ADDR is unset; a nil *Cache is
// safe to call.
func NewFromEnv(log *logger.Logger) (*Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("rediscache: logger required")
	}
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("rediscache: ping: %w", err)
	}

	return &Cache{
		log: log.With("client", "RedisCache"),
		rdb: rdb,
		ttl: envutil.Duration("REDIS_PRESENCE_TTL", 24*time.Hour),
	}, nil
}

func (c *Cache) IsPresent(ctx context.Context, kind, id string) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	n, err := c.rdb.Exists(ctx, key(kind, id)).Result()
	if err != nil {
		c.log.Debug("presence lookup failed, treating as miss", "kind", kind, "id", id, "error", err)
		return false
	}
	return n > 0
}

func (c *Cache) MarkPresent(ctx context.Context, kind, id string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key(kind, id), "1", c.ttl).Err(); err != nil {
		c.log.Debug("presence mark failed", "kind", kind, "id", id, "error", err)
	}
}

// Forget drops a presence entry, for callers that just deleted the entity.
func (c *Cache) Forget(ctx context.Context, kind, id string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, key(kind, id)).Err(); err != nil {
		c.log.Debug("presence forget failed", "kind", kind, "id", id, "error", err)
	}
}

func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func key(kind, id string) string {
	return "moviegraph:present:" + strings.ToLower(kind) + ":" + id
}
