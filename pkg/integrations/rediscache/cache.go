package rediscache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"gtaeconomy/pkg/types/cache"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ cache.Cache[int64, float64] = (*PriceCache)(nil)

// PriceCache keeps current item prices in a single Redis hash so several app instances
// share one view.
type PriceCache struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*PriceCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis url")
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "redis ping failed")
	}

	return NewWithClient(client, cfg, logger), nil
}

// NewWithClient wraps an existing client (used by tests against miniredis).
func NewWithClient(client *redis.Client, cfg Config, logger *slog.Logger) *PriceCache {
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = DefaultConfig().OpTimeout
	}
	if cfg.Key == "" {
		cfg.Key = DefaultConfig().Key
	}
	return &PriceCache{client: client, cfg: cfg, logger: logger}
}

func (c *PriceCache) Close() error {
	return c.client.Close()
}

func (c *PriceCache) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.cfg.OpTimeout)
}

func (c *PriceCache) Get(itemID int64) (float64, bool) {
	ctx, cancel := c.opContext()
	defer cancel()

	val, err := c.client.HGet(ctx, c.cfg.Key, field(itemID)).Float64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Error("redis price lookup failed", "item_id", itemID, "error", err)
		}
		return 0, false
	}
	return val, true
}

func (c *PriceCache) Set(itemID int64, price float64) {
	ctx, cancel := c.opContext()
	defer cancel()

	if err := c.client.HSet(ctx, c.cfg.Key, field(itemID), price).Err(); err != nil {
		c.logger.Error("redis price store failed", "item_id", itemID, "error", err)
	}
}

func (c *PriceCache) Delete(itemID int64) {
	ctx, cancel := c.opContext()
	defer cancel()

	if err := c.client.HDel(ctx, c.cfg.Key, field(itemID)).Err(); err != nil {
		c.logger.Error("redis price delete failed", "item_id", itemID, "error", err)
	}
}

func (c *PriceCache) Keys() []int64 {
	ctx, cancel := c.opContext()
	defer cancel()

	fields, err := c.client.HKeys(ctx, c.cfg.Key).Result()
	if err != nil {
		c.logger.Error("redis price keys failed", "error", err)
		return nil
	}
	keys := make([]int64, 0, len(fields))
	for _, f := range fields {
		if id, err := strconv.ParseInt(f, 10, 64); err == nil {
			keys = append(keys, id)
		}
	}
	return keys
}

func (c *PriceCache) Snapshot() map[int64]float64 {
	ctx, cancel := c.opContext()
	defer cancel()

	raw, err := c.client.HGetAll(ctx, c.cfg.Key).Result()
	if err != nil {
		c.logger.Error("redis price snapshot failed", "error", err)
		return map[int64]float64{}
	}
	out := make(map[int64]float64, len(raw))
	for f, v := range raw {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		out[id] = price
	}
	return out
}

func (c *PriceCache) Clear() {
	ctx, cancel := c.opContext()
	defer cancel()

	if err := c.client.Del(ctx, c.cfg.Key).Err(); err != nil {
		c.logger.Error("redis price clear failed", "error", err)
	}
}

func (c *PriceCache) Len() int {
	ctx, cancel := c.opContext()
	defer cancel()

	n, err := c.client.HLen(ctx, c.cfg.Key).Result()
	if err != nil {
		c.logger.Error("redis price count failed", "error", err)
		return 0
	}
	return int(n)
}

func field(itemID int64) string {
	return strconv.FormatInt(itemID, 10)
}
