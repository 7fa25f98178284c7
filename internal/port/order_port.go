package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
)

type OrderRepository interface {
	// PlaceOrder validates stock, debits it, creates the order and clears the
	// user's remote cart in one atomic step. A stock shortfall is reported as
	// *domain.InsufficientStockError with nothing changed.
	PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (uuid.UUID, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
}
