package controller

import (
	"log/slog"

	"gtaeconomy/internal/repo"
	"gtaeconomy/internal/service"
	"gtaeconomy/pkg/types/pubsub"
)

type Controller struct {
	economy     *service.Economy
	repo        *repo.Repository
	logger      *slog.Logger
	priceEvents pubsub.Subscriber
}

type Option func(*Controller)

func WithEconomy(e *service.Economy) Option {
	return func(c *Controller) {
		c.economy = e
	}
}

func WithRepository(r *repo.Repository) Option {
	return func(c *Controller) {
		c.repo = r
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithPriceEvents enables the SSE price stream.
func WithPriceEvents(s pubsub.Subscriber) Option {
	return func(c *Controller) {
		c.priceEvents = s
	}
}

func New(opts ...Option) (*Controller, error) {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.economy == nil:
		return nil, ErrNilEconomy
	case c.repo == nil:
		return nil, ErrNilRepository
	case c.logger == nil:
		return nil, ErrNilLogger
	}
	return c, nil
}
