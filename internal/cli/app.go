package cli

import (
	"io"
	"log/slog"
	"os"

	"gtaeconomy/internal/repo"
	"gtaeconomy/internal/service"
	"gtaeconomy/pkg/database"
	"gtaeconomy/pkg/integrations/memcache"
	"gtaeconomy/pkg/integrations/rediscache"
	"gtaeconomy/pkg/types/cache"
	"gtaeconomy/pkg/types/pubsub"

	"github.com/pkg/errors"
)

// app holds what every command needs: a migrated repository and the economy service on top
// of it.
type app struct {
	logger  *slog.Logger
	db      *database.Database
	repo    *repo.Repository
	economy *service.Economy
	closers []io.Closer
}

func newLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
}

func openApp(cfg *Config, logger *slog.Logger, publisher pubsub.Publisher) (*app, error) {
	db, err := database.New(
		database.WithDriver(cfg.DBDriver),
		database.WithPath(cfg.DBPath),
		database.WithDSN(cfg.DatabaseURL),
		database.WithLogger(logger),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}
	a := &app{logger: logger, db: db, closers: []io.Closer{db}}

	a.repo, err = repo.New(db.Get())
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "failed to create repository")
	}
	if err := a.repo.Migrate(); err != nil {
		a.Close()
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	priceCache, err := a.priceCache(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []service.EconomyOption{
		service.WithEconomyLogger(logger),
		service.WithEconomyRepo(a.repo),
		service.WithEconomyPriceCache(priceCache),
	}
	if publisher != nil {
		opts = append(opts, service.WithEconomyPublisher(publisher))
	}
	a.economy, err = service.NewEconomy(opts...)
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "failed to create economy service")
	}
	if err := a.economy.WarmCache(); err != nil {
		a.Close()
		return nil, errors.Wrap(err, "failed to warm price cache")
	}

	return a, nil
}

func (a *app) priceCache(cfg *Config) (cache.Cache[int64, float64], error) {
	switch cfg.CacheType {
	case "", CacheMemory:
		return memcache.New[int64, float64](), nil
	case CacheRedis:
		rc := rediscache.DefaultConfig()
		rc.URL = cfg.RedisURL
		c, err := rediscache.New(rc, a.logger)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to redis")
		}
		a.closers = append(a.closers, c)
		return c, nil
	default:
		return nil, errors.Errorf("unsupported cache type %q", cfg.CacheType)
	}
}

// seedIfEmpty imports path when the store has no players and no items yet.
func (a *app) seedIfEmpty(path string) error {
	players, err := a.repo.CountPlayers()
	if err != nil {
		return err
	}
	items, err := a.repo.CountItems()
	if err != nil {
		return err
	}
	if players > 0 || items > 0 {
		a.logger.Debug("store already has data, skipping seed", "file", path)
		return nil
	}
	_, err = a.seed(path)
	return err
}

func (a *app) seed(path string) (*service.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open seed file")
	}
	defer f.Close()

	_, res, err := a.economy.ImportFile(f.Name(), formatFor(path), f)
	if err != nil {
		return nil, err
	}
	a.logger.Info("seeded store", "file", path, "imported", res.ImportedRows, "failed", res.FailedRows, "status", res.Status)
	return res, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}
