// Package session owns one shopper's cart, identity and in-flight remote
// operations, and keeps the local cart consistent with the remote cart record.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/cart"
	"github.com/nikolayk812/shopcart/internal/catalog"
	"github.com/nikolayk812/shopcart/internal/checkout"
	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/nikolayk812/shopcart/internal/mirror"
)

var (
	// ErrBusy rejects an action that competes with an in-flight remote
	// operation on the same resource. The action is dropped, not queued.
	ErrBusy   = domain.ErrBusy
	ErrClosed = errors.New("session is closed")
)

type Options struct {
	DeliveryFee domain.Money
	// RemoteTimeout bounds every remote call; zero leaves the caller's deadline.
	RemoteTimeout time.Duration
	Logger        *slog.Logger
}

type Session struct {
	catalog  *catalog.Catalog
	mirror   *mirror.Mirror
	checkout *checkout.Service
	fee      domain.Money
	timeout  time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	cart       *cart.State
	identity   *domain.Identity
	generation uint64 // bumped on every identity change
	inflight   map[uuid.UUID]struct{}
	hydrating  int
	deferred   bool // hydration of the current identity awaits catalog products
	placing    bool
	closed     bool
}

func New(cat *catalog.Catalog, mir *mirror.Mirror, co *checkout.Service, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		catalog:  cat,
		mirror:   mir,
		checkout: co,
		fee:      opts.DeliveryFee,
		timeout:  opts.RemoteTimeout,
		logger:   logger,
		cart:     cart.New(),
		inflight: make(map[uuid.UUID]struct{}),
	}
}

// Cart returns a copy of the current cart.
func (s *Session) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart.Snapshot()
	if s.identity != nil {
		c.OwnerID = s.identity.UserID
	}
	return c
}

func (s *Session) Totals() cart.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Totals(s.fee)
}

func (s *Session) Identity() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneIdentity(s.identity)
}

// Busy reports whether an action on productID would be rejected with ErrBusy,
// so a presentation layer can disable the control.
func (s *Session) Busy(productID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.busyLocked(productID)
}

// Close stops the session from acting on results of calls still in flight.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
}

// AddToCart adds one unit of the product, inserting the line if needed.
func (s *Session) AddToCart(ctx context.Context, productID uuid.UUID) error {
	if err := s.resumeHydration(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.checkMutableLocked(productID); err != nil {
		s.mu.Unlock()
		return err
	}

	snap, ok := s.catalog.Snapshot()
	if !ok {
		s.mu.Unlock()
		return domain.ErrCatalogNotReady
	}
	product, ok := snap.Product(productID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("product[%s]: %w", productID, domain.ErrUnknownProduct)
	}

	undo, err := s.cart.AddOrIncrement(product)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	return s.syncUnlock(ctx, undo)
}

// DecreaseQuantity removes one unit, dropping the line at zero. Products not
// in the cart are ignored.
func (s *Session) DecreaseQuantity(ctx context.Context, productID uuid.UUID) error {
	if err := s.resumeHydration(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.checkMutableLocked(productID); err != nil {
		s.mu.Unlock()
		return err
	}

	undo, ok := s.cart.DecrementOrRemove(productID)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	if snap, loaded := s.catalog.Snapshot(); loaded {
		if product, found := snap.Product(productID); found {
			s.cart.Reprice(product)
		}
	}

	return s.syncUnlock(ctx, undo)
}

func (s *Session) RemoveFromCart(ctx context.Context, productID uuid.UUID) error {
	if err := s.resumeHydration(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.checkMutableLocked(productID); err != nil {
		s.mu.Unlock()
		return err
	}

	undo, ok := s.cart.Remove(productID)
	if !ok {
		s.mu.Unlock()
		return nil
	}

	return s.syncUnlock(ctx, undo)
}

// PlaceOrder submits the cart to the atomic order placement. On success the
// cart is cleared; on failure it is left untouched.
func (s *Session) PlaceOrder(ctx context.Context) (uuid.UUID, error) {
	if err := s.resumeHydration(ctx); err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return uuid.Nil, ErrClosed
	}
	if s.placing || s.hydrating > 0 || len(s.inflight) > 0 {
		s.mu.Unlock()
		return uuid.Nil, ErrBusy
	}

	ident := cloneIdentity(s.identity)
	snapshot := s.cart.Snapshot()
	gen := s.generation
	s.placing = true
	s.mu.Unlock()

	ctx, cancel := s.remoteContext(ctx)
	defer cancel()

	orderID, err := s.checkout.PlaceOrder(ctx, ident, snapshot, s.fee)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.placing = false
	if err != nil {
		return uuid.Nil, err
	}

	if !s.closed && gen == s.generation {
		s.cart.Clear()
	}

	return orderID, nil
}

// Orders lists the signed-in user's orders.
func (s *Session) Orders(ctx context.Context) ([]domain.Order, error) {
	ctx, cancel := s.remoteContext(ctx)
	defer cancel()

	return s.checkout.Orders(ctx, s.Identity())
}

func (s *Session) checkMutableLocked(productID uuid.UUID) error {
	if s.closed {
		return ErrClosed
	}
	if s.busyLocked(productID) {
		return ErrBusy
	}
	return nil
}

func (s *Session) busyLocked(productID uuid.UUID) bool {
	_, inflight := s.inflight[productID]
	return inflight || s.hydrating > 0 || s.placing
}

// syncUnlock mirrors the line touched by undo to the remote cart and rolls
// the local change back if that fails. It must be called with s.mu held and
// releases it.
func (s *Session) syncUnlock(ctx context.Context, undo cart.Undo) error {
	if s.identity == nil {
		s.mu.Unlock()
		return nil
	}

	ident := *s.identity
	gen := s.generation
	quantity := s.cart.Quantity(undo.ProductID)
	s.inflight[undo.ProductID] = struct{}{}
	s.mu.Unlock()

	ctx, cancel := s.remoteContext(ctx)
	defer cancel()

	err := s.mirror.SyncLine(ctx, ident, undo.ProductID, quantity)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight, undo.ProductID)

	if s.closed || gen != s.generation {
		s.logger.Debug("discarding sync result of a stale session",
			slog.String("product_id", undo.ProductID.String()))
		return nil
	}

	if err != nil {
		s.cart.Rollback(undo)
		s.logger.Warn("cart sync failed, local change rolled back",
			slog.String("user_id", ident.UserID),
			slog.String("product_id", undo.ProductID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("sync product[%s]: %w", undo.ProductID, err)
	}

	return nil
}

func (s *Session) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func cloneIdentity(ident *domain.Identity) *domain.Identity {
	if ident == nil {
		return nil
	}

	clone := *ident
	return &clone
}
