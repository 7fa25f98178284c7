package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/shopcart/internal/db"
	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/nikolayk812/shopcart/internal/port"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *orderRepository) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (uuid.UUID, error) {
	if err := req.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("req.Validate: %w", err)
	}

	// rows are locked in product id order so concurrent placements cannot deadlock
	lines := slices.Clone(req.Lines)
	slices.SortFunc(lines, func(a, b domain.OrderLine) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (uuid.UUID, error) {
		for _, line := range lines {
			available, err := q.LockProductStock(ctx, line.ProductID)
			if errors.Is(err, pgx.ErrNoRows) {
				return uuid.Nil, fmt.Errorf("product[%s]: %w", line.ProductID, domain.ErrProductNotFound)
			}
			if err != nil {
				return uuid.Nil, fmt.Errorf("q.LockProductStock: %w", err)
			}

			if int(available) < line.Quantity {
				return uuid.Nil, &domain.InsufficientStockError{
					ProductID: line.ProductID,
					Requested: line.Quantity,
					Available: int(available),
				}
			}
		}

		for _, line := range lines {
			err := q.DecrementProductStock(ctx, db.DecrementProductStockParams{
				ProductID: line.ProductID,
				Quantity:  int32(line.Quantity),
			})
			if err != nil {
				return uuid.Nil, fmt.Errorf("q.DecrementProductStock: %w", err)
			}
		}

		total := req.Total()
		orderID, err := q.CreateOrder(ctx, db.CreateOrderParams{
			UserID:        req.UserID,
			TotalAmount:   total.Amount,
			TotalCurrency: total.Currency.String(),
			Status:        string(domain.OrderStatusPending),
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("q.CreateOrder: %w", err)
		}

		for _, line := range req.Lines {
			err := q.InsertOrderItem(ctx, db.InsertOrderItemParams{
				OrderID:       orderID,
				ProductID:     line.ProductID,
				Quantity:      int32(line.Quantity),
				PriceAmount:   line.Price.Amount,
				PriceCurrency: line.Price.Currency.String(),
			})
			if err != nil {
				return uuid.Nil, fmt.Errorf("q.InsertOrderItem: %w", err)
			}
		}

		if _, err := q.DeleteCartItemsByUser(ctx, req.UserID); err != nil {
			return uuid.Nil, fmt.Errorf("q.DeleteCartItemsByUser: %w", err)
		}

		return orderID, nil
	})
}

func (r *orderRepository) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is empty")
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) ([]domain.Order, error) {
		orderRows, err := q.ListOrders(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("q.ListOrders: %w", err)
		}
		if len(orderRows) == 0 {
			return nil, nil
		}

		orderIDs := make([]uuid.UUID, 0, len(orderRows))
		for _, row := range orderRows {
			orderIDs = append(orderIDs, row.OrderID)
		}

		itemRows, err := q.ListOrderItems(ctx, orderIDs)
		if err != nil {
			return nil, fmt.Errorf("q.ListOrderItems: %w", err)
		}

		orders, err := mapOrderRowsToDomain(orderRows, itemRows)
		if err != nil {
			return nil, fmt.Errorf("mapOrderRowsToDomain: %w", err)
		}

		return orders, nil
	})
}

func mapOrderRowsToDomain(orderRows []db.Order, itemRows []db.ListOrderItemsRow) ([]domain.Order, error) {
	itemsByOrder := make(map[uuid.UUID][]domain.OrderItem, len(orderRows))
	for _, row := range itemRows {
		item, err := mapOrderItemRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapOrderItemRowToDomain: %w", err)
		}
		itemsByOrder[row.OrderID] = append(itemsByOrder[row.OrderID], item)
	}

	orders := make([]domain.Order, 0, len(orderRows))
	for _, row := range orderRows {
		parsedCurrency, err := currency.ParseISO(strings.TrimSpace(row.TotalCurrency))
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", row.TotalCurrency, err)
		}

		orders = append(orders, domain.Order{
			ID:        row.OrderID,
			UserID:    row.UserID,
			Items:     itemsByOrder[row.OrderID],
			Total:     domain.Money{Amount: row.TotalAmount, Currency: parsedCurrency},
			Status:    domain.OrderStatus(row.Status),
			CreatedAt: row.OrderedAt,
		})
	}

	return orders, nil
}

func mapOrderItemRowToDomain(row db.ListOrderItemsRow) (domain.OrderItem, error) {
	parsedCurrency, err := currency.ParseISO(strings.TrimSpace(row.PriceCurrency))
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.OrderItem{
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		Quantity:    int(row.Quantity),
		Price:       domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
	}, nil
}
