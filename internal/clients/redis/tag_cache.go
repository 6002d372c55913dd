package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/atelierzuzka/backend/internal/pkg/logger"
)

// TagCache stores vision tag results keyed by image content hash so
// re-drafting the same photo does not re-bill the vision API. It is
// optional wiring; callers must tolerate a nil cache.
type TagCache interface {
	GetTags(ctx context.Context, key string) ([]string, bool, error)
	SetTags(ctx context.Context, key string, tags []string) error
	Close() error
}

type tagCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewTagCache(log *logger.Logger) (TagCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	prefix := strings.TrimSpace(os.Getenv("REDIS_TAG_CACHE_PREFIX"))
	if prefix == "" {
		prefix = "vision:tags"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &tagCache{
		log:    log.With("service", "RedisTagCache"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    7 * 24 * time.Hour,
	}, nil
}

func (c *tagCache) key(k string) string {
	return c.prefix + ":" + k
}

func (c *tagCache) GetTags(ctx context.Context, key string) ([]string, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, nil
	}
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, false, err
	}
	return tags, true, nil
}

func (c *tagCache) SetTags(ctx context.Context, key string, tags []string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(key), raw, c.ttl).Err()
}

func (c *tagCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
