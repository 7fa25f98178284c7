package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/shopcart/internal/db"
	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/nikolayk812/shopcart/internal/port"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.RemoteCart, error) {
	if ownerID == "" {
		return domain.RemoteCart{}, fmt.Errorf("ownerID is empty")
	}

	// both reads see the same cart even if a line is upserted in between
	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.RemoteCart, error) {
		cartID, err := q.GetCartID(ctx, ownerID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RemoteCart{}, domain.ErrNoRemoteCart
		}
		if err != nil {
			return domain.RemoteCart{}, fmt.Errorf("q.GetCartID: %w", err)
		}

		rows, err := q.GetCartItems(ctx, cartID)
		if err != nil {
			return domain.RemoteCart{}, fmt.Errorf("q.GetCartItems: %w", err)
		}

		return domain.RemoteCart{
			ID:      cartID,
			OwnerID: ownerID,
			Items:   mapGetCartItemsRowsToDomain(rows),
		}, nil
	})
}

func (r *cartRepository) FindCartID(ctx context.Context, ownerID string) (uuid.UUID, error) {
	if ownerID == "" {
		return uuid.Nil, fmt.Errorf("ownerID is empty")
	}

	cartID, err := r.q.GetCartID(ctx, ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, domain.ErrNoRemoteCart
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.GetCartID: %w", err)
	}

	return cartID, nil
}

func (r *cartRepository) CreateCart(ctx context.Context, ownerID string) (uuid.UUID, error) {
	if ownerID == "" {
		return uuid.Nil, fmt.Errorf("ownerID is empty")
	}

	cartID, err := r.q.CreateCart(ctx, ownerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.CreateCart: %w", err)
	}

	return cartID, nil
}

func (r *cartRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	if cartID == uuid.Nil {
		return fmt.Errorf("cartID is empty")
	}
	if quantity <= 0 {
		return fmt.Errorf("quantity %d: %w", quantity, domain.ErrInvalidQuantity)
	}

	err := r.q.UpsertCartItem(ctx, db.UpsertCartItemParams{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  int32(quantity),
	})
	if err != nil {
		return fmt.Errorf("q.UpsertCartItem: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) (bool, error) {
	if cartID == uuid.Nil {
		return false, fmt.Errorf("cartID is empty")
	}

	rowsAffected, err := r.q.DeleteCartItem(ctx, db.DeleteCartItemParams{
		CartID:    cartID,
		ProductID: productID,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteCartItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func mapGetCartItemsRowToDomain(row db.GetCartItemsRow) domain.RemoteCartItem {
	return domain.RemoteCartItem{
		ProductID: row.ProductID,
		Quantity:  int(row.Quantity),
		UpdatedAt: row.UpdatedAt,
	}
}

func mapGetCartItemsRowsToDomain(rows []db.GetCartItemsRow) []domain.RemoteCartItem {
	var items []domain.RemoteCartItem

	for _, row := range rows {
		items = append(items, mapGetCartItemsRowToDomain(row))
	}

	return items
}
