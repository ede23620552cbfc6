package cli

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gtaeconomy/internal/handler"
	"gtaeconomy/internal/middleware"
	"gtaeconomy/internal/service"
	webhandler "gtaeconomy/internal/ui/handler"
	"gtaeconomy/pkg/integrations/wmPubsub"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cfg.Port, "port", "p", cfg.Port, "HTTP port (env: APP_PORT)")
	cmd.Flags().StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "CSV or JSON file imported into an empty store (env: SEED_FILE)")
	cmd.Flags().StringVar(&cfg.SnapshotDir, "snapshot-dir", cfg.SnapshotDir, "Directory for periodic snapshots, empty disables (env: SNAPSHOT_DIR)")
	cmd.Flags().DurationVar(&cfg.SnapshotInterval, "snapshot-interval", cfg.SnapshotInterval, "Snapshot interval (env: SNAPSHOT_INTERVAL)")
	cmd.Flags().StringVar(&cfg.ImagesDir, "images-dir", cfg.ImagesDir, "Item image directory (env: IMAGES_DIR)")
	cmd.Flags().StringVar(&cfg.TemplatesDir, "templates-dir", cfg.TemplatesDir, "HTML templates directory (env: TEMPLATES_DIR)")

	return cmd
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg)

	priceEvents, err := wmPubsub.New(
		wmPubsub.WithContext(ctx),
		wmPubsub.WithLogger(logger),
		wmPubsub.WithTopic("prices"),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create price events")
	}

	a, err := openApp(cfg, logger, priceEvents)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.SeedFile != "" {
		if err := a.seedIfEmpty(cfg.SeedFile); err != nil {
			return errors.Wrap(err, "failed to seed store")
		}
	}

	var snapshots *service.SnapshotService
	if cfg.SnapshotDir != "" {
		snapshots, err = service.NewSnapshotService(
			service.WithSnapshotContext(ctx),
			service.WithSnapshotLogger(logger),
			service.WithSnapshotSource(a.economy),
			service.WithSnapshotDir(cfg.SnapshotDir),
			service.WithSnapshotInterval(cfg.SnapshotInterval),
		)
		if err != nil {
			return errors.Wrap(err, "failed to create snapshot service")
		}
		if err := snapshots.Start(); err != nil {
			return errors.Wrap(err, "failed to start snapshot service")
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logging(logger), middleware.Recovery(logger))

	api, err := handler.New(
		handler.WithEngine(r),
		handler.WithEconomy(a.economy),
		handler.WithRepository(a.repo),
		handler.WithLogger(logger),
		handler.WithPriceEvents(priceEvents),
		handler.WithSwagger(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create api handler")
	}
	if err := api.Setup(); err != nil {
		return errors.Wrap(err, "failed to setup api routes")
	}

	web, err := webhandler.New(
		webhandler.WithEngine(r),
		webhandler.WithEconomy(a.economy),
		webhandler.WithRepository(a.repo),
		webhandler.WithLogger(logger),
		webhandler.WithTemplatesDir(cfg.TemplatesDir),
		webhandler.WithStaticDir(cfg.StaticDir),
		webhandler.WithImagesDir(cfg.ImagesDir),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create web handler")
	}
	if err := web.Setup(); err != nil {
		return errors.Wrap(err, "failed to setup web routes")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting gtaeconomy", "port", cfg.Port, "db_driver", cfg.DBDriver, "cache", cfg.CacheType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
	case <-ctx.Done():
		logger.Info("shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	if snapshots != nil {
		snapshots.Stop()
	}
	return nil
}
