package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultPath = "./data/gtaeconomy.db"
)

// Database holds the GORM database instance
type Database struct {
	conn   *gorm.DB
	driver string
	path   string
	dsn    string
	logger *slog.Logger
}

// Option is the functional options pattern for Database
type Option func(*Database) error

// New applies opts and opens the connection for the selected driver.
func New(opts ...Option) (*Database, error) {
	db := &Database{
		driver: DriverSQLite,
		path:   defaultPath,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(db); err != nil {
			return nil, err
		}
	}
	if err := db.open(); err != nil {
		return nil, err
	}
	return db, nil
}

// WithDriver selects sqlite (default) or postgres.
func WithDriver(driver string) Option {
	return func(db *Database) error {
		switch driver {
		case "", DriverSQLite:
			db.driver = DriverSQLite
		case DriverPostgres:
			db.driver = DriverPostgres
		default:
			return fmt.Errorf("unsupported database driver %q", driver)
		}
		return nil
	}
}

// WithPath sets the SQLite database file
func WithPath(path string) Option {
	return func(db *Database) error {
		if path == "" {
			path = defaultPath
		}
		db.path = path
		return nil
	}
}

// WithDSN sets the Postgres connection string
func WithDSN(dsn string) Option {
	return func(db *Database) error {
		db.dsn = dsn
		return nil
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(db *Database) error {
		if l != nil {
			db.logger = l
		}
		return nil
	}
}

func (d *Database) open() error {
	cfg := &gorm.Config{Logger: logger.New(gormWriter{d.logger}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})}

	switch d.driver {
	case DriverPostgres:
		if d.dsn == "" {
			return fmt.Errorf("postgres driver requires a DSN")
		}
		conn, err := gorm.Open(postgres.Open(d.dsn), cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		d.conn = conn
		d.logger.Info("database connected", "driver", d.driver)
		return nil
	default:
		if err := ensureWritableDir(d.path); err != nil {
			return err
		}
		conn, err := gorm.Open(sqlite.Open(d.path), cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w (path: %s)", err, d.path)
		}
		d.conn = conn
		d.logger.Info("database connected", "driver", d.driver, "path", d.path)
		return nil
	}
}

// gormWriter sends GORM's slow-query and error lines to the application logger.
type gormWriter struct {
	logger *slog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}

func ensureWritableDir(path string) error {
	// In-memory and URI style sqlite names have no directory to prepare.
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat data directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", dir)
	}

	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("data directory %s is not writable: %w", dir, err)
	}
	os.Remove(testFile)
	return nil
}

// Get returns the underlying GORM database instance
func (d *Database) Get() *gorm.DB {
	return d.conn
}

func (d *Database) Driver() string {
	return d.driver
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.conn == nil {
		return nil
	}
	sqlDB, err := d.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
