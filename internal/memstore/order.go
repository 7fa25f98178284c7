package memstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
)

func (s *Store) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if err := req.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("req.Validate: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// first pass: every line must fit the current stock
	for _, line := range req.Lines {
		p, ok := s.products[line.ProductID]
		if !ok {
			return uuid.Nil, fmt.Errorf("product[%s]: %w", line.ProductID, domain.ErrProductNotFound)
		}
		if p.Quantity < line.Quantity {
			return uuid.Nil, &domain.InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: p.Quantity,
			}
		}
	}

	// second pass: debit stock
	items := make([]domain.OrderItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		p := s.products[line.ProductID]
		p.Quantity -= line.Quantity
		s.products[line.ProductID] = p

		items = append(items, domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			Price:       line.Price,
		})
	}

	order := domain.Order{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Items:     items,
		Total:     req.Total(),
		Status:    domain.OrderStatusPending,
		CreatedAt: s.now(),
	}
	s.orders[req.UserID] = append(s.orders[req.UserID], order)

	if c, ok := s.carts[req.UserID]; ok {
		clear(c.items)
		c.order = nil
	}

	return order.ID, nil
}

// ListOrders returns the user's orders, newest first.
func (s *Store) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("userID is empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := slices.Clone(s.orders[userID])
	slices.Reverse(orders)

	return orders, nil
}
