package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID        uuid.UUID
	UserID    string
	Items     []OrderItem
	Total     Money
	Status    OrderStatus
	CreatedAt time.Time
}

type OrderItem struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Price       Money
}

// PlaceOrderRequest is the single request submitted to the atomic
// order-placement operation of the remote store.
type PlaceOrderRequest struct {
	UserID      string
	Lines       []OrderLine
	DeliveryFee Money
}

type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
	Price     Money
}

func (r PlaceOrderRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("userID is empty")
	}
	if len(r.Lines) == 0 {
		return ErrCartEmpty
	}

	seen := make(map[uuid.UUID]struct{}, len(r.Lines))
	for _, line := range r.Lines {
		if line.Quantity <= 0 {
			return fmt.Errorf("product[%s] quantity %d: %w", line.ProductID, line.Quantity, ErrInvalidQuantity)
		}
		if line.Price.Amount.IsNegative() {
			return fmt.Errorf("product[%s] price is negative", line.ProductID)
		}
		if line.Price.Currency != r.DeliveryFee.Currency {
			return fmt.Errorf("product[%s] currency %s differs from %s", line.ProductID, line.Price.Currency, r.DeliveryFee.Currency)
		}
		if _, ok := seen[line.ProductID]; ok {
			return fmt.Errorf("product[%s] is listed twice", line.ProductID)
		}
		seen[line.ProductID] = struct{}{}
	}

	return nil
}

// Total is the sum of all lines plus the delivery fee.
func (r PlaceOrderRequest) Total() Money {
	total := r.DeliveryFee
	for _, line := range r.Lines {
		total.Amount = total.Amount.Add(line.Price.Times(line.Quantity).Amount)
	}

	return total
}
