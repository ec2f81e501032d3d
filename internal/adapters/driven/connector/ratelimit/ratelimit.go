// Package ratelimit wraps a connector so every remote call waits for a
// token bucket first.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// Connector throttles calls to the wrapped connector. GetEntries reads the
// local cache and is not throttled.
type Connector struct {
	next    driven.Connector
	limiter *rate.Limiter
}

// Wrap returns next throttled according to cfg. A non-positive rate
// returns next unchanged.
func Wrap(next driven.Connector, cfg Config) driven.Connector {
	if cfg.RequestsPerSecond <= 0 {
		return next
	}
	if cfg.BurstSize < 1 {
		cfg.BurstSize = 1
	}
	return &Connector{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a call can be made without exceeding the rate limit.
func (c *Connector) Wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// AddEntries waits for a token, then adds rows.
func (c *Connector) AddEntries(ctx context.Context, table domain.Table, rows []domain.Record) error {
	if err := c.Wait(ctx); err != nil {
		return err
	}
	return c.next.AddEntries(ctx, table, rows)
}

// GetEntries reads the wrapped connector's cache.
func (c *Connector) GetEntries(
	ctx context.Context,
	table domain.Table,
	filter domain.Filter,
	returnFields []string,
) ([]domain.Record, error) {
	return c.next.GetEntries(ctx, table, filter, returnFields)
}

// FetchEntries waits for a token, then fetches.
func (c *Connector) FetchEntries(ctx context.Context, filter domain.Filter, databaseName string) error {
	if err := c.Wait(ctx); err != nil {
		return err
	}
	return c.next.FetchEntries(ctx, filter, databaseName)
}

// Commit waits for a token, then commits.
func (c *Connector) Commit(ctx context.Context) error {
	if err := c.Wait(ctx); err != nil {
		return err
	}
	return c.next.Commit(ctx)
}

// Close closes the wrapped connector.
func (c *Connector) Close() error {
	return c.next.Close()
}
