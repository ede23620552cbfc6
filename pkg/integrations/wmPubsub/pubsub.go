package wmPubsub

import (
	"context"
	"log/slog"
	"sync"

	"gtaeconomy/pkg/types/pubsub"

	"github.com/pkg/errors"
)

var (
	ErrInvalidPubSubConfig = errors.New("invalid pubsub config")
)

var _ pubsub.PubSub = (*PubSub)(nil)

const defaultBuffer = 16

// PubSub fans every published payload out to all current subscribers. Slow subscribers
// lose messages instead of blocking publishers.
type PubSub struct {
	topic  string
	in     chan []byte
	buffer int
	ctx    context.Context
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[chan []byte]struct{}
	closed bool
}

type Option func(*PubSub)

func WithContext(ctx context.Context) Option {
	return func(ps *PubSub) {
		ps.ctx = ctx
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(ps *PubSub) {
		ps.logger = l
	}
}

func WithTopic(topic string) Option {
	return func(ps *PubSub) {
		ps.topic = topic
	}
}

// WithBuffer sets the size of the inbound queue and of each subscriber channel.
func WithBuffer(n int) Option {
	return func(ps *PubSub) {
		ps.buffer = n
	}
}

func (ps *PubSub) IsValid() error {
	switch {
	case ps.ctx == nil:
		return errors.Wrap(ErrInvalidPubSubConfig, "ctx cannot be nil")
	case ps.logger == nil:
		return errors.Wrap(ErrInvalidPubSubConfig, "logger cannot be nil")
	case ps.topic == "":
		return errors.Wrap(ErrInvalidPubSubConfig, "topic cannot be empty")
	case ps.buffer <= 0:
		return errors.Wrap(ErrInvalidPubSubConfig, "buffer must be positive")
	default:
		return nil
	}
}

// New validates the options and starts the dispatch loop, which ends with ctx.
func New(opts ...Option) (*PubSub, error) {
	ps := &PubSub{
		buffer: defaultBuffer,
		subs:   make(map[chan []byte]struct{}),
	}

	for _, opt := range opts {
		opt(ps)
	}

	if err := ps.IsValid(); err != nil {
		return nil, err
	}

	ps.in = make(chan []byte, ps.buffer)
	go ps.run()

	return ps, nil
}

func (ps *PubSub) Publish(payload []byte) error {
	if err := ps.ctx.Err(); err != nil {
		return err
	}
	select {
	case ps.in <- payload:
		return nil
	case <-ps.ctx.Done():
		return ps.ctx.Err()
	}
}

func (ps *PubSub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, ps.buffer)

	ps.mu.Lock()
	if ps.closed {
		ps.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	ps.subs[ch] = struct{}{}
	ps.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			ps.mu.Lock()
			defer ps.mu.Unlock()
			if _, ok := ps.subs[ch]; ok {
				delete(ps.subs, ch)
				close(ch)
			}
		})
	}
}

// Subscribers reports how many listeners are attached.
func (ps *PubSub) Subscribers() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.subs)
}

func (ps *PubSub) run() {
	for {
		select {
		case msg := <-ps.in:
			ps.dispatch(msg)
		case <-ps.ctx.Done():
			ps.mu.Lock()
			for ch := range ps.subs {
				close(ch)
				delete(ps.subs, ch)
			}
			ps.closed = true
			ps.mu.Unlock()
			return
		}
	}
}

func (ps *PubSub) dispatch(msg []byte) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	dropped := 0
	for ch := range ps.subs {
		select {
		case ch <- msg:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		ps.logger.Warn("pubsub message dropped for slow subscribers", "topic", ps.topic, "dropped", dropped)
	}
}
