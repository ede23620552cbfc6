package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"gtaeconomy/internal/flatfile"
	tickerScheduler "gtaeconomy/pkg/integrations/scheduler"
	"gtaeconomy/pkg/types/scheduler"

	"github.com/pkg/errors"
)

var ErrInvalidSnapshotConfig = errors.New("invalid snapshot service config")

const (
	SnapshotJSON = "snapshot.json"
	SnapshotCSV  = "snapshot.csv"
)

type DatasetSource interface {
	Dataset() (*flatfile.Dataset, error)
}

// SnapshotService periodically writes the full dataset to flat files in dir.
type SnapshotService struct {
	ctx       context.Context
	logger    *slog.Logger
	source    DatasetSource
	dir       string
	interval  time.Duration
	scheduler scheduler.Scheduler
}

type SnapshotOption func(*SnapshotService)

func WithSnapshotContext(ctx context.Context) SnapshotOption {
	return func(s *SnapshotService) {
		s.ctx = ctx
	}
}

func WithSnapshotLogger(l *slog.Logger) SnapshotOption {
	return func(s *SnapshotService) {
		s.logger = l
	}
}

func WithSnapshotSource(src DatasetSource) SnapshotOption {
	return func(s *SnapshotService) {
		s.source = src
	}
}

func WithSnapshotDir(dir string) SnapshotOption {
	return func(s *SnapshotService) {
		s.dir = dir
	}
}

func WithSnapshotInterval(d time.Duration) SnapshotOption {
	return func(s *SnapshotService) {
		s.interval = d
	}
}

func (s *SnapshotService) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidSnapshotConfig, "ctx cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidSnapshotConfig, "logger cannot be nil")
	case s.source == nil:
		return errors.Wrap(ErrInvalidSnapshotConfig, "source cannot be nil")
	case s.dir == "":
		return errors.Wrap(ErrInvalidSnapshotConfig, "dir cannot be empty")
	case s.interval <= 0:
		return errors.Wrap(ErrInvalidSnapshotConfig, "interval must be positive")
	default:
		return nil
	}
}

func NewSnapshotService(opts ...SnapshotOption) (*SnapshotService, error) {
	s := &SnapshotService{
		interval: scheduler.DefaultSnapshots,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}

	sched, err := tickerScheduler.New(
		tickerScheduler.WithContext(s.ctx),
		tickerScheduler.WithLogger(s.logger),
		tickerScheduler.WithName("snapshot"),
		tickerScheduler.WithInterval(s.interval),
		tickerScheduler.WithHandler(s.Write),
		tickerScheduler.WithRunOnStart(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scheduler")
	}
	s.scheduler = sched

	return s, nil
}

func (s *SnapshotService) Start() error {
	return s.scheduler.Start()
}

// Stop halts the schedule and writes one final snapshot.
func (s *SnapshotService) Stop() {
	s.scheduler.Stop()
	if err := s.Write(); err != nil {
		s.logger.Error("final snapshot failed", "error", err)
	}
}

func (s *SnapshotService) Write() error {
	ds, err := s.source.Dataset()
	if err != nil {
		return errors.Wrap(err, "failed to collect dataset")
	}

	jsonPath := filepath.Join(s.dir, SnapshotJSON)
	if err := flatfile.WriteFileAtomic(jsonPath, func(w io.Writer) error {
		return flatfile.WriteJSON(w, ds)
	}); err != nil {
		return err
	}

	csvPath := filepath.Join(s.dir, SnapshotCSV)
	if err := flatfile.WriteFileAtomic(csvPath, func(w io.Writer) error {
		return flatfile.WriteCSV(w, ds.Records(), ';')
	}); err != nil {
		return err
	}

	s.logger.Debug("snapshot written", "dir", s.dir,
		"players", len(ds.Players), "items", len(ds.Items),
		"prices", len(ds.Prices), "transactions", len(ds.Transactions))
	return nil
}
