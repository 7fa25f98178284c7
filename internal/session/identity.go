package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikolayk812/shopcart/internal/domain"
)

// Watch applies identity events in arrival order until ctx is done or the
// channel is closed. Failures are logged, never returned.
func (s *Session) Watch(ctx context.Context, events <-chan domain.IdentityEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.HandleIdentityEvent(ctx, ev); err != nil {
				if errors.Is(err, ErrClosed) {
					return nil
				}
				s.logger.Warn("identity transition failed",
					slog.String("event", ev.Kind.String()),
					slog.String("error", err.Error()))
			}
		}
	}
}

// Resume starts the session from an identity that was already established,
// e.g. a persisted login found at start-up.
func (s *Session) Resume(ctx context.Context, ident *domain.Identity) error {
	if ident == nil {
		return nil
	}
	return s.HandleIdentityEvent(ctx, domain.IdentityEvent{Kind: domain.SignedIn, Identity: ident})
}

// HandleIdentityEvent drives the Anonymous / Authenticated state machine.
//
//   - signed out, or any event without an identity: clear the cart and forget
//     the remote cart id
//   - a new principal: wait for the catalog, then hydrate the cart from the
//     remote record (or adopt the anonymous cart if there is none)
//   - the same principal again: reconcile quietly, keeping local state on
//     failure
func (s *Session) HandleIdentityEvent(ctx context.Context, ev domain.IdentityEvent) error {
	if ev.Kind == domain.SignedOut || ev.Identity == nil || ev.Identity.UserID == "" {
		return s.signOut()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	ident := *ev.Identity
	if s.identity != nil && s.identity.UserID == ident.UserID {
		s.identity = &ident
		s.mu.Unlock()
		return s.reconcile(ctx)
	}

	wasAnonymous := s.identity == nil
	if !wasAnonymous {
		// a different user: nothing of the previous cart may carry over
		s.cart.Clear()
	}
	s.mirror.Forget()
	s.identity = &ident
	s.generation++
	s.deferred = false
	gen := s.generation
	s.hydrating++
	s.mu.Unlock()

	defer s.doneHydrating()

	s.logger.Info("session authenticated", slog.String("user_id", ident.UserID))

	return s.hydrate(ctx, gen, ident)
}

func (s *Session) signOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if s.identity != nil {
		s.logger.Info("session signed out", slog.String("user_id", s.identity.UserID))
	}

	s.cart.Clear()
	s.mirror.Forget()
	s.identity = nil
	s.generation++
	s.deferred = false

	return nil
}

// hydrate replaces the cart wholesale from the remote record. A failed fetch
// leaves an empty cart and no cached cart id rather than a partial cart.
// Without catalog products the hydration is deferred, not abandoned.
func (s *Session) hydrate(ctx context.Context, gen uint64, ident domain.Identity) error {
	// hydrating against a catalog that has not loaded would drop every line
	if err := s.catalog.Wait(ctx); err != nil {
		s.deferIfCurrent(gen)
		return err
	}

	rctx, cancel := s.remoteContext(ctx)
	defer cancel()

	h, err := s.mirror.Fetch(rctx, ident)
	switch {
	case errors.Is(err, domain.ErrCatalogNotReady):
		s.deferIfCurrent(gen)
		return nil
	case errors.Is(err, domain.ErrNoRemoteCart):
		return s.adopt(rctx, gen, ident)
	case err != nil:
		s.resetIfCurrent(gen)
		return fmt.Errorf("hydrate cart: %w", err)
	case len(h.Items) == 0 && len(h.Dropped) == 0:
		// an empty remote record takes the anonymous cart like a missing one
		return s.adopt(rctx, gen, ident)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.generation {
		return nil
	}
	s.cart.Replace(h.Items)

	s.logger.Info("cart hydrated",
		slog.String("user_id", ident.UserID),
		slog.Int("lines", len(h.Items)))

	return nil
}

// adopt pushes the lines collected while anonymous to the user's remote cart.
func (s *Session) adopt(ctx context.Context, gen uint64, ident domain.Identity) error {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return nil
	}
	items := s.cart.Snapshot().Items
	s.mu.Unlock()

	if len(items) == 0 {
		return nil
	}

	if _, err := s.mirror.EnsureRemoteCart(ctx, ident); err != nil {
		s.resetIfCurrent(gen)
		return fmt.Errorf("adopt cart: %w", err)
	}

	for _, item := range items {
		if err := s.mirror.SyncLine(ctx, ident, item.ProductID, item.Quantity); err != nil {
			s.resetIfCurrent(gen)
			return fmt.Errorf("adopt cart: %w", err)
		}
	}

	s.logger.Info("anonymous cart adopted",
		slog.String("user_id", ident.UserID),
		slog.Int("lines", len(items)))

	return nil
}

// reconcile refreshes the cart of the current user after a credential
// refresh or profile update. Failures keep the local cart.
func (s *Session) reconcile(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.identity == nil || s.hydrating > 0 || s.placing || len(s.inflight) > 0 {
		// a local change is about to reach the remote; the next refresh picks it up
		s.mu.Unlock()
		s.logger.Debug("cart reconciliation skipped: session busy")
		return nil
	}
	ident := *s.identity
	gen := s.generation
	s.hydrating++
	s.mu.Unlock()

	defer s.doneHydrating()

	if err := s.catalog.Wait(ctx); err != nil {
		return err
	}

	rctx, cancel := s.remoteContext(ctx)
	defer cancel()

	h, err := s.mirror.Fetch(rctx, ident)
	if err != nil {
		s.logger.Warn("cart reconciliation failed, keeping local cart",
			slog.String("user_id", ident.UserID),
			slog.String("error", err.Error()))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.generation {
		return nil
	}
	s.cart.Replace(h.Items)
	s.deferred = false

	return nil
}

// resumeHydration completes a hydration deferred for lack of catalog
// products. Mutations call it first, so a local change never overwrites
// remote lines that were not loaded yet.
func (s *Session) resumeHydration(ctx context.Context) error {
	s.mu.Lock()
	if !s.deferred || s.identity == nil {
		s.mu.Unlock()
		return nil
	}
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.hydrating > 0 || s.placing {
		s.mu.Unlock()
		return ErrBusy
	}
	if _, ok := s.catalog.Snapshot(); !ok {
		s.mu.Unlock()
		return domain.ErrCatalogNotReady
	}
	ident := *s.identity
	gen := s.generation
	s.deferred = false
	s.hydrating++
	s.mu.Unlock()

	defer s.doneHydrating()

	s.logger.Info("resuming deferred cart hydration", slog.String("user_id", ident.UserID))

	return s.hydrate(ctx, gen, ident)
}

func (s *Session) deferIfCurrent(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.generation {
		return
	}
	s.deferred = true
}

func (s *Session) resetIfCurrent(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.generation {
		return
	}
	s.cart.Clear()
	s.mirror.Forget()
}

func (s *Session) doneHydrating() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrating--
}
