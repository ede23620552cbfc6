package rediscache

import "time"

type Config struct {
	// URL is the Redis connection URL, e.g. redis://localhost:6379/0
	URL string

	// Key is the hash that holds item id -> current price.
	Key string

	PoolSize     int
	MinIdleConns int
	OpTimeout    time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		Key:          "gtaeconomy:prices:current",
		PoolSize:     10,
		MinIdleConns: 2,
		OpTimeout:    2 * time.Second,
	}
}
