package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the session-local cart. At most one item per product, every
// quantity is at least one.
type Cart struct {
	OwnerID string
	Items   []CartItem
}

type CartItem struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
	Price     Money
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Item(productID uuid.UUID) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}

	return CartItem{}, false
}

// RemoteCart is the persisted cart record of an authenticated user.
type RemoteCart struct {
	ID      uuid.UUID
	OwnerID string
	Items   []RemoteCartItem
}

type RemoteCartItem struct {
	ProductID uuid.UUID
	Quantity  int

	UpdatedAt time.Time
}
