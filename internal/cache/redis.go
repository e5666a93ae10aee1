package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/pkg/config"
	"github.com/inkwell/inkwell/pkg/logging"
)

var (
	// ErrCacheDisabled is returned when cache operations are attempted but cache is disabled
	ErrCacheDisabled = fmt.Errorf("cache is disabled")
)

const (
	keyPrefix     = "inkwell:"
	viewKeyPrefix = "views:post:"
)

// Cache wraps the Redis client. It doubles as the buffer for view
// counters: views accumulate as atomic INCRs here and a scheduler job
// drains them into Postgres.
type Cache struct {
	client *redis.Client
}

// New creates a new Redis cache client
func New(cfg *config.RedisConfig) (*Cache, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Redis cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	return &Cache{client: client}, nil
}

func (c *Cache) namespaceKey(key string) string {
	return keyPrefix + key
}

// HashKey derives a short stable cache key from its parts.
func HashKey(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// Get retrieves a value from cache
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrCacheDisabled
	}
	return c.client.Get(ctx, c.namespaceKey(key)).Result()
}

// Set sets a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Set(ctx, c.namespaceKey(key), value, ttl).Err()
}

// GetJSON retrieves a JSON value from cache into dest
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), dest)
}

// SetJSON marshals value and stores it with TTL
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.namespaceKey(key), raw, ttl).Err()
}

// Delete removes a key from cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Del(ctx, c.namespaceKey(key)).Err()
}

// IncrView buffers one view for a post as an atomic INCR.
func (c *Cache) IncrView(ctx context.Context, postID int64) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Incr(ctx, c.namespaceKey(viewKey(postID))).Err()
}

// DrainViews atomically collects and clears all buffered view counts,
// returning postID -> pending delta. Keys are consumed with GETDEL so a
// crash between drain and flush loses at most one batch.
func (c *Cache) DrainViews(ctx context.Context) (map[int64]int64, error) {
	if c == nil || c.client == nil {
		return nil, ErrCacheDisabled
	}

	pending := make(map[int64]int64)
	var cursor uint64
	pattern := keyPrefix + viewKeyPrefix + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan view keys: %w", err)
		}
		for _, key := range keys {
			raw, err := c.client.GetDel(ctx, key).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				return nil, err
			}
			postID, ok := parseViewKey(key)
			if !ok {
				logging.GetLogger().Warn("Skipping malformed view counter key", zap.String("key", key))
				continue
			}
			delta, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				logging.GetLogger().Warn("Skipping non-numeric view counter", zap.String("key", key))
				continue
			}
			pending[postID] += delta
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return pending, nil
}

func viewKey(postID int64) string {
	return viewKeyPrefix + strconv.FormatInt(postID, 10)
}

func parseViewKey(key string) (int64, bool) {
	raw := strings.TrimPrefix(key, keyPrefix+viewKeyPrefix)
	if raw == key {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Health checks Redis health
func (c *Cache) Health(ctx context.Context) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}
