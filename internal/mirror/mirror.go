// Package mirror maps local cart mutations onto the remote cart record of an
// authenticated user and loads that record back for hydration.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/catalog"
	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/nikolayk812/shopcart/internal/port"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
)

// SnapshotSource is satisfied by *catalog.Catalog.
type SnapshotSource interface {
	Snapshot() (*catalog.Snapshot, bool)
}

type Options struct {
	// BreakerFailures consecutive remote failures open the circuit; zero disables it.
	BreakerFailures uint32
	// BreakerOpenTimeout is how long the circuit stays open before probing again.
	BreakerOpenTimeout time.Duration
	Logger             *slog.Logger
}

type Mirror struct {
	repo    port.CartRepository
	catalog SnapshotSource
	breaker *gobreaker.CircuitBreaker[any]
	sfg     singleflight.Group
	logger  *slog.Logger

	mu      sync.Mutex
	ownerID string
	cartID  uuid.UUID
	epoch   uint64 // bumped by Forget
}

// Hydration is a remote cart joined against the catalog snapshot.
type Hydration struct {
	CartID  uuid.UUID
	Items   []domain.CartItem
	Dropped []uuid.UUID
}

func New(repo port.CartRepository, source SnapshotSource, opts Options) *Mirror {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Mirror{
		repo:    repo,
		catalog: source,
		logger:  logger,
	}

	if opts.BreakerFailures > 0 {
		m.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:    "remote-cart",
			Timeout: opts.BreakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= opts.BreakerFailures
			},
			IsSuccessful: func(err error) bool {
				// a missing cart or a rejected quantity says nothing about the store's health
				return err == nil ||
					errors.Is(err, domain.ErrNoRemoteCart) ||
					errors.Is(err, domain.ErrInvalidQuantity) ||
					errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed",
					slog.String("name", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			},
		})
	}

	return m
}

// CartID returns the cached remote cart id for ownerID, if any.
func (m *Mirror) CartID(ownerID string) (uuid.UUID, bool) {
	cartID, ok, _ := m.cached(ownerID)
	return cartID, ok
}

func (m *Mirror) cached(ownerID string) (uuid.UUID, bool, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ownerID == "" || m.ownerID != ownerID {
		return uuid.Nil, false, m.epoch
	}
	return m.cartID, true, m.epoch
}

// Forget drops the cached cart id so the next mutation resolves it again.
// Lookups already in flight do not repopulate it.
func (m *Mirror) Forget() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ownerID = ""
	m.cartID = uuid.Nil
	m.epoch++
}

// EnsureRemoteCart resolves the user's remote cart id, creating the record on
// first use. Concurrent calls for the same user share one lookup.
func (m *Mirror) EnsureRemoteCart(ctx context.Context, ident domain.Identity) (uuid.UUID, error) {
	if ident.UserID == "" {
		return uuid.Nil, domain.ErrNotAuthenticated
	}
	cartID, ok, epoch := m.cached(ident.UserID)
	if ok {
		return cartID, nil
	}

	v, err, _ := m.sfg.Do(ident.UserID, func() (any, error) {
		cartID, err := call(m, func() (uuid.UUID, error) {
			return m.repo.FindCartID(ctx, ident.UserID)
		})
		if errors.Is(err, domain.ErrNoRemoteCart) {
			cartID, err = call(m, func() (uuid.UUID, error) {
				return m.repo.CreateCart(ctx, ident.UserID)
			})
			if err == nil {
				m.logger.Info("remote cart created", slog.String("user_id", ident.UserID), slog.String("cart_id", cartID.String()))
			}
		}
		if err != nil {
			return uuid.Nil, err
		}

		m.remember(ident.UserID, cartID, epoch)
		return cartID, nil
	})
	if err != nil {
		m.invalidate(ident.UserID)
		return uuid.Nil, fmt.Errorf("ensure remote cart: %w", err)
	}

	return v.(uuid.UUID), nil
}

// SyncLine writes the line's quantity to the remote cart: upsert when
// positive, delete when zero. It does not retry.
func (m *Mirror) SyncLine(ctx context.Context, ident domain.Identity, productID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("quantity %d: %w", quantity, domain.ErrInvalidQuantity)
	}

	cartID, err := m.EnsureRemoteCart(ctx, ident)
	if err != nil {
		return err
	}

	if quantity > 0 {
		_, err = call(m, func() (struct{}, error) {
			return struct{}{}, m.repo.UpsertItem(ctx, cartID, productID, quantity)
		})
		if err != nil {
			return fmt.Errorf("repo.UpsertItem: %w", err)
		}
		return nil
	}

	_, err = call(m, func() (bool, error) {
		return m.repo.DeleteItem(ctx, cartID, productID)
	})
	if err != nil {
		return fmt.Errorf("repo.DeleteItem: %w", err)
	}

	return nil
}

// Fetch loads the user's remote cart and joins it against the catalog
// snapshot. Lines whose product left the catalog are dropped. It returns
// domain.ErrCatalogNotReady without a remote call while the catalog is empty,
// and invalidates the cached cart id on any failure.
func (m *Mirror) Fetch(ctx context.Context, ident domain.Identity) (Hydration, error) {
	if ident.UserID == "" {
		return Hydration{}, domain.ErrNotAuthenticated
	}

	_, _, epoch := m.cached(ident.UserID)

	snap, ok := m.catalog.Snapshot()
	if !ok || snap.Len() == 0 {
		m.logger.Warn("cart hydration deferred: catalog not loaded", slog.String("user_id", ident.UserID))
		return Hydration{}, domain.ErrCatalogNotReady
	}

	remote, err := call(m, func() (domain.RemoteCart, error) {
		return m.repo.GetCart(ctx, ident.UserID)
	})
	if err != nil {
		m.invalidate(ident.UserID)
		if errors.Is(err, domain.ErrNoRemoteCart) {
			return Hydration{}, err
		}
		return Hydration{}, fmt.Errorf("repo.GetCart: %w", err)
	}

	m.remember(ident.UserID, remote.ID, epoch)

	h := Hydration{CartID: remote.ID}
	for _, line := range remote.Items {
		product, ok := snap.Product(line.ProductID)
		if !ok || line.Quantity <= 0 {
			h.Dropped = append(h.Dropped, line.ProductID)
			continue
		}

		h.Items = append(h.Items, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	if len(h.Dropped) > 0 {
		m.logger.Info("stale cart lines dropped",
			slog.String("user_id", ident.UserID),
			slog.Int("dropped", len(h.Dropped)))
	}

	return h, nil
}

// remember caches cartID unless Forget ran since epoch was read.
func (m *Mirror) remember(ownerID string, cartID uuid.UUID, epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		return
	}
	m.ownerID = ownerID
	m.cartID = cartID
}

// invalidate forgets the cached id only if it still belongs to ownerID.
func (m *Mirror) invalidate(ownerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ownerID == ownerID {
		m.ownerID = ""
		m.cartID = uuid.Nil
	}
}

func call[T any](m *Mirror, fn func() (T, error)) (T, error) {
	if m.breaker == nil {
		return fn()
	}

	var zero T
	v, err := m.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}

	return v.(T), nil
}
