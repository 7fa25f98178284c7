// Package checkout submits a cart to the remote atomic order placement.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/nikolayk812/shopcart/internal/port"
)

// Refresher reloads the catalog after stock changed.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type Service struct {
	orders  port.OrderRepository
	catalog Refresher
	logger  *slog.Logger
}

func New(orders port.OrderRepository, catalog Refresher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		orders:  orders,
		catalog: catalog,
		logger:  logger,
	}
}

// PlaceOrder submits every cart line as one request. Preconditions are
// checked before any remote call. Nothing is retried: a failed or timed-out
// placement is returned to the caller as is.
func (s *Service) PlaceOrder(ctx context.Context, ident *domain.Identity, cart domain.Cart, deliveryFee domain.Money) (uuid.UUID, error) {
	if ident == nil || ident.UserID == "" {
		return uuid.Nil, domain.ErrNotAuthenticated
	}
	if cart.IsEmpty() {
		return uuid.Nil, domain.ErrCartEmpty
	}

	req := domain.PlaceOrderRequest{
		UserID:      ident.UserID,
		Lines:       make([]domain.OrderLine, 0, len(cart.Items)),
		DeliveryFee: deliveryFee,
	}
	for _, item := range cart.Items {
		req.Lines = append(req.Lines, domain.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	orderID, err := s.orders.PlaceOrder(ctx, req)
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			s.logger.Info("order rejected: insufficient stock",
				slog.String("user_id", ident.UserID),
				slog.String("product_id", stockErr.ProductID.String()),
				slog.Int("requested", stockErr.Requested),
				slog.Int("available", stockErr.Available))
		} else {
			s.logger.Error("order placement failed",
				slog.String("user_id", ident.UserID),
				slog.String("error", err.Error()))
		}
		return uuid.Nil, fmt.Errorf("orders.PlaceOrder: %w", err)
	}

	s.logger.Info("order placed",
		slog.String("user_id", ident.UserID),
		slog.String("order_id", orderID.String()),
		slog.Int("lines", len(req.Lines)))

	// stock levels changed; the order stands even if the reload fails
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn("catalog refresh after order failed", slog.String("error", err.Error()))
	}

	return orderID, nil
}

// Orders lists the user's placed orders, newest first.
func (s *Service) Orders(ctx context.Context, ident *domain.Identity) ([]domain.Order, error) {
	if ident == nil || ident.UserID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	orders, err := s.orders.ListOrders(ctx, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("orders.ListOrders: %w", err)
	}

	return orders, nil
}
