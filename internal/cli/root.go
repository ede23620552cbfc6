package cli

import (
	"os"
	"path/filepath"
	"strings"

	"gtaeconomy/internal/service"
	"gtaeconomy/pkg/utils"

	"github.com/spf13/cobra"
)

var cfg *Config

func NewRootCmd() *cobra.Command {
	utils.LoadEnv()
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "gtaeconomy",
		Short: "Track a GTA Online style in-game economy",
		Long: `gtaeconomy records players, items, market prices and transactions of an in-game
economy and serves analytics over HTML pages and a JSON API.

Running without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "Database driver: sqlite, postgres (env: DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database file (env: DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres connection string (env: DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&cfg.CacheType, "cache", cfg.CacheType, "Price cache: memory, redis (env: CACHE_TYPE)")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL (env: REDIS_URL)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error (env: LOG_LEVEL)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func formatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return service.FormatJSON
	}
	return service.FormatCSV
}
