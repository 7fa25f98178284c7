// Package app wires a storefront session against the Postgres store.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/shopcart/internal/catalog"
	"github.com/nikolayk812/shopcart/internal/checkout"
	"github.com/nikolayk812/shopcart/internal/config"
	"github.com/nikolayk812/shopcart/internal/mirror"
	"github.com/nikolayk812/shopcart/internal/port"
	"github.com/nikolayk812/shopcart/internal/repository"
	"github.com/nikolayk812/shopcart/internal/session"
)

type App struct {
	Catalog *catalog.Catalog
	Session *session.Session

	pool   *pgxpool.Pool
	logger *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func NewLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// New connects to the store, loads the catalog, then resumes the identity's
// current principal and consumes its events in the background.
func New(ctx context.Context, cfg config.Config, ident port.IdentityProvider, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fee, err := cfg.DeliveryFee()
	if err != nil {
		return nil, fmt.Errorf("cfg.DeliveryFee: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}

	cat := catalog.New(repository.NewCatalog(pool), logger)
	mir := mirror.New(repository.NewCart(pool), cat, mirror.Options{
		BreakerFailures:    cfg.Remote.BreakerFailures,
		BreakerOpenTimeout: cfg.Remote.BreakerOpenTimeout,
		Logger:             logger,
	})
	co := checkout.New(repository.NewOrder(pool), cat, logger)
	sess := session.New(cat, mir, co, session.Options{
		DeliveryFee:   fee,
		RemoteTimeout: cfg.Remote.Timeout,
		Logger:        logger,
	})

	// the catalog must be loaded before any cart hydration
	if err := cat.Refresh(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("catalog.Refresh: %w", err)
	}

	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a := &App{
		Catalog: cat,
		Session: sess,
		pool:    pool,
		logger:  logger,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	current := ident.Current()
	go func() {
		defer close(a.done)

		// resuming waits for catalog products, so it runs with the event loop
		if err := sess.Resume(watchCtx, current); err != nil {
			logger.Warn("resuming session failed", slog.String("error", err.Error()))
		}
		_ = sess.Watch(watchCtx, ident.Events())
	}()

	return a, nil
}

// Close stops event processing, ignores results still in flight and closes the pool.
func (a *App) Close() {
	a.cancel()
	<-a.done
	a.Session.Close()
	a.pool.Close()
}
