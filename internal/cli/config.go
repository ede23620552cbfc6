package cli

import (
	"log/slog"
	"strings"
	"time"

	"gtaeconomy/pkg/database"
	"gtaeconomy/pkg/types/scheduler"
	"gtaeconomy/pkg/utils"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is read from the environment first; command flags override it.
type Config struct {
	Port             string
	DBDriver         string
	DBPath           string
	DatabaseURL      string
	CacheType        string
	RedisURL         string
	SeedFile         string
	SnapshotDir      string
	SnapshotInterval time.Duration
	ImagesDir        string
	TemplatesDir     string
	StaticDir        string
	LogLevel         string
}

func DefaultConfig() *Config {
	return &Config{
		Port:             utils.GetEnv("APP_PORT", "8080"),
		DBDriver:         utils.GetEnv("DB_DRIVER", database.DriverSQLite),
		DBPath:           utils.GetEnv("DB_PATH", "./data/gtaeconomy.db"),
		DatabaseURL:      utils.GetEnv("DATABASE_URL", ""),
		CacheType:        utils.GetEnv("CACHE_TYPE", CacheMemory),
		RedisURL:         utils.GetEnv("REDIS_URL", "redis://localhost:6379/0"),
		SeedFile:         utils.GetEnv("SEED_FILE", ""),
		SnapshotDir:      utils.GetEnv("SNAPSHOT_DIR", ""),
		SnapshotInterval: utils.GetEnvDuration("SNAPSHOT_INTERVAL", scheduler.DefaultSnapshots),
		ImagesDir:        utils.GetEnv("IMAGES_DIR", "./internal/ui/static/images"),
		TemplatesDir:     utils.GetEnv("TEMPLATES_DIR", "./internal/ui/templates"),
		StaticDir:        utils.GetEnv("STATIC_DIR", "./internal/ui/static"),
		LogLevel:         utils.GetEnv("LOG_LEVEL", "info"),
	}
}

func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
