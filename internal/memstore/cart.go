package memstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
)

func (s *Store) GetCart(ctx context.Context, ownerID string) (domain.RemoteCart, error) {
	if err := ctx.Err(); err != nil {
		return domain.RemoteCart{}, err
	}
	if ownerID == "" {
		return domain.RemoteCart{}, fmt.Errorf("ownerID is empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[ownerID]
	if !ok {
		return domain.RemoteCart{}, domain.ErrNoRemoteCart
	}

	result := domain.RemoteCart{ID: c.id, OwnerID: ownerID}
	for _, productID := range c.order {
		result.Items = append(result.Items, c.items[productID])
	}

	return result, nil
}

func (s *Store) FindCartID(ctx context.Context, ownerID string) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if ownerID == "" {
		return uuid.Nil, fmt.Errorf("ownerID is empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[ownerID]
	if !ok {
		return uuid.Nil, domain.ErrNoRemoteCart
	}

	return c.id, nil
}

func (s *Store) CreateCart(ctx context.Context, ownerID string) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if ownerID == "" {
		return uuid.Nil, fmt.Errorf("ownerID is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[ownerID]; ok {
		return c.id, nil
	}

	c := &remoteCart{
		id:    uuid.New(),
		items: make(map[uuid.UUID]domain.RemoteCartItem),
	}
	s.carts[ownerID] = c

	return c.id, nil
}

func (s *Store) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if quantity <= 0 {
		return fmt.Errorf("quantity %d: %w", quantity, domain.ErrInvalidQuantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cartByIDLocked(cartID)
	if err != nil {
		return err
	}

	if _, ok := c.items[productID]; !ok {
		c.order = append(c.order, productID)
	}
	c.items[productID] = domain.RemoteCartItem{
		ProductID: productID,
		Quantity:  quantity,
		UpdatedAt: s.now(),
	}

	return nil
}

func (s *Store) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cartByIDLocked(cartID)
	if err != nil {
		return false, err
	}

	if _, ok := c.items[productID]; !ok {
		return false, nil
	}
	delete(c.items, productID)
	c.order = slices.DeleteFunc(c.order, func(id uuid.UUID) bool { return id == productID })

	return true, nil
}

func (s *Store) cartByIDLocked(cartID uuid.UUID) (*remoteCart, error) {
	for _, c := range s.carts {
		if c.id == cartID {
			return c, nil
		}
	}

	return nil, fmt.Errorf("cart[%s]: %w", cartID, domain.ErrNoRemoteCart)
}
