package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestScheduler_TicksMultipleTimes(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var count atomic.Int32
	s, err := New(
		WithContext(ctx),
		WithLogger(discardLogger),
		WithInterval(10*time.Millisecond),
		WithHandler(func() error {
			count.Add(1)
			return nil
		}),
	)
	require.NoError(t, err)
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool { return count.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_RunOnStart(t *testing.T) {
	var count atomic.Int32
	s, err := New(
		WithContext(t.Context()),
		WithLogger(discardLogger),
		WithInterval(time.Hour),
		WithRunOnStart(),
		WithHandler(func() error {
			count.Add(1)
			return nil
		}),
	)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_HandlerErrorKeepsTicking(t *testing.T) {
	var count atomic.Int32
	s, err := New(
		WithContext(t.Context()),
		WithLogger(discardLogger),
		WithInterval(10*time.Millisecond),
		WithHandler(func() error {
			count.Add(1)
			return errors.New("boom")
		}),
	)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return count.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	var count atomic.Int32
	s, err := New(
		WithContext(ctx),
		WithLogger(discardLogger),
		WithInterval(10*time.Millisecond),
		WithHandler(func() error {
			count.Add(1)
			return nil
		}),
	)
	require.NoError(t, err)
	require.NoError(t, s.Start())

	time.Sleep(25 * time.Millisecond)
	cancel()
	time.Sleep(15 * time.Millisecond)
	countAtCancel := count.Load()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, countAtCancel, count.Load(), "should not tick after cancel")
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s, err := New(
		WithContext(t.Context()),
		WithLogger(discardLogger),
		WithInterval(time.Second),
		WithHandler(func() error { return nil }),
	)
	require.NoError(t, err)
	require.NoError(t, s.Start())

	s.Stop()
	s.Stop()
}

func TestScheduler_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"no context", []Option{WithLogger(discardLogger), WithInterval(time.Second), WithHandler(func() error { return nil })}},
		{"no interval", []Option{WithLogger(discardLogger), WithContext(context.Background()), WithHandler(func() error { return nil })}},
		{"no handler", []Option{WithLogger(discardLogger), WithContext(context.Background()), WithInterval(time.Second)}},
		{"no logger", []Option{WithContext(context.Background()), WithInterval(time.Second), WithHandler(func() error { return nil })}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidSchedulerConfig)
		})
	}
}
