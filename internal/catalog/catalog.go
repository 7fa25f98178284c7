// Package catalog holds the product catalog snapshot the cart is hydrated
// against, plus the readiness gate that hydration waits on.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/nikolayk812/shopcart/internal/port"
	"golang.org/x/sync/errgroup"
)

type Catalog struct {
	repo   port.CatalogRepository
	logger *slog.Logger

	mu   sync.RWMutex
	snap *Snapshot

	ready     chan struct{}
	readyOnce sync.Once
}

func New(repo port.CatalogRepository, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}

	return &Catalog{
		repo:   repo,
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// Refresh replaces the snapshot with a fresh fetch. On failure the previous
// snapshot stays in place.
func (c *Catalog) Refresh(ctx context.Context) error {
	var (
		products   []domain.Product
		categories []domain.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = c.repo.ListProducts(gctx)
		if err != nil {
			return fmt.Errorf("repo.ListProducts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = c.repo.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("repo.ListCategories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		c.logger.Error("catalog refresh failed", slog.String("error", err.Error()))
		return err
	}

	snap := NewSnapshot(products, categories)

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	if snap.Len() == 0 {
		// every cart line would look stale against an empty catalog
		c.logger.Warn("catalog refreshed without products")
		return nil
	}
	c.readyOnce.Do(func() { close(c.ready) })

	c.logger.Debug("catalog refreshed",
		slog.Int("products", snap.Len()),
		slog.Int("categories", len(categories)))

	return nil
}

// Snapshot returns the current snapshot; ok is false while no refresh has
// loaded at least one product.
func (c *Catalog) Snapshot() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snap, c.snap != nil && c.snap.Len() > 0
}

// Ready is closed once a refresh loads at least one product.
func (c *Catalog) Ready() <-chan struct{} {
	return c.ready
}

func (c *Catalog) Wait(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for catalog: %w", ctx.Err())
	}
}
