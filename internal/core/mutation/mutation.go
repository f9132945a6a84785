// Package mutation runs user-initiated writes against the care API
// Input is validated locally first. A successful write invalidates the
// cached lists it affects and notifies the user; a failed one only notifies
package mutation

import (
	"context"

	"careview/internal/core/listcache"
	perr "careview/internal/platform/errors"
	"careview/internal/platform/logger"
	"careview/internal/platform/net/http/bind"
)

// Send performs the upstream write
type Send[P, R any] func(ctx context.Context, payload P) (R, error)

// Messages shown to the user for each outcome
type Messages struct {
	Success string
	Invalid string
	Failed  string
}

// Config describes one kind of mutation
type Config[P, R any] struct {
	Name string
	Send Send[P, R]
	// Validate checks the payload before sending. Nil uses the struct's validate tags
	Validate func(P) error
	// Invalidates lists the cache prefixes a successful write makes stale
	Invalidates func(P) []string
	Messages    Messages
}

// Controller submits payloads of one mutation kind
type Controller[P, R any] struct {
	cfg    Config[P, R]
	cache  *listcache.Cache
	notify Notifier
	log    logger.Logger
}

// New builds a controller. A nil notifier logs notifications
func New[P, R any](cache *listcache.Cache, n Notifier, cfg Config[P, R]) *Controller[P, R] {
	if n == nil {
		n = LogNotifier{}
	}
	return &Controller[P, R]{
		cfg:    cfg,
		cache:  cache,
		notify: n,
		log:    *logger.Named("mutation"),
	}
}

// Submit validates and sends p. Validation failures never reach the network
func (c *Controller[P, R]) Submit(ctx context.Context, p P) (R, error) {
	var zero R
	n := notifierFrom(ctx, c.notify)

	if err := c.check(p); err != nil {
		msg := c.cfg.Messages.Invalid
		if msg == "" {
			msg = err.Error()
		}
		n.Error(ctx, msg)
		return zero, perr.WithOp(err, c.cfg.Name)
	}

	r, err := c.cfg.Send(ctx, p)
	if err != nil {
		if _, ok := perr.As(err); !ok {
			err = perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s failed", c.cfg.Name)
		}
		logger.C(ctx).Warn().Err(err).Str("mutation", c.cfg.Name).Msg("mutation failed")
		n.Error(ctx, c.cfg.Messages.Failed)
		return zero, perr.WithOp(err, c.cfg.Name)
	}

	if c.cfg.Invalidates != nil && c.cache != nil {
		for _, prefix := range c.cfg.Invalidates(p) {
			c.cache.Invalidate(prefix)
		}
	}
	c.log.Debug().Str("mutation", c.cfg.Name).Msg("mutation applied")
	n.Success(ctx, c.cfg.Messages.Success)
	return r, nil
}

func (c *Controller[P, R]) check(p P) error {
	if c.cfg.Validate != nil {
		return c.cfg.Validate(p)
	}
	return bind.Struct(p)
}
