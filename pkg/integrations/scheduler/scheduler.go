package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrInvalidSchedulerConfig = errors.New("invalid scheduler config")
)

// Scheduler runs handler every interval until its context is done or Stop is called.
type Scheduler struct {
	interval   time.Duration
	ctx        context.Context
	logger     *slog.Logger
	handler    func() error
	name       string
	runOnStart bool

	stopOnce sync.Once
	stopCh   chan struct{}
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		s.interval = d
	}
}

func WithContext(ctx context.Context) Option {
	return func(s *Scheduler) {
		s.ctx = ctx
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

func WithHandler(h func() error) Option {
	return func(s *Scheduler) {
		s.handler = h
	}
}

func WithName(name string) Option {
	return func(s *Scheduler) {
		s.name = name
	}
}

// WithRunOnStart makes Start invoke the handler once before the first tick.
func WithRunOnStart() Option {
	return func(s *Scheduler) {
		s.runOnStart = true
	}
}

func (s *Scheduler) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "ctx cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "logger cannot be nil")
	case s.interval <= 0:
		return errors.Wrap(ErrInvalidSchedulerConfig, "interval must be positive")
	case s.handler == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "handler cannot be nil")
	default:
		return nil
	}
}

func New(opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		name:   "scheduler",
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, s.IsValid()
}

func (s *Scheduler) Start() error {
	if err := s.IsValid(); err != nil {
		return err
	}

	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()
		if s.runOnStart {
			s.run()
		}
		for {
			select {
			case <-ticker.C:
				s.run()
			case <-s.stopCh:
				return
			case <-s.ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (s *Scheduler) run() {
	if err := s.handler(); err != nil {
		s.logger.Error("scheduler handler error", "name", s.name, "interval", s.interval, "error", err)
	}
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}
