package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
)

type CartRepository interface {
	// GetCart returns domain.ErrNoRemoteCart when the owner has no cart record.
	GetCart(ctx context.Context, ownerID string) (domain.RemoteCart, error)
	FindCartID(ctx context.Context, ownerID string) (uuid.UUID, error)
	// CreateCart is idempotent: it returns the existing cart id if the owner already has one.
	CreateCart(ctx context.Context, ownerID string) (uuid.UUID, error)
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, cartID, productID uuid.UUID) (bool, error)
}
