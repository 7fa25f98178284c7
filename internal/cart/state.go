// Package cart is the in-memory cart a session mutates for immediate
// feedback. It never talks to the network and is not safe for concurrent use;
// the owning session serialises access.
package cart

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/shopspring/decimal"
)

// Undo records the state of one line before a mutation.
type Undo struct {
	ProductID uuid.UUID
	Prev      domain.CartItem
	Existed   bool
	// Index is the position the line had, so a restored line keeps its place.
	Index int
}

type State struct {
	items []domain.CartItem
}

func New() *State {
	return &State{}
}

// AddOrIncrement puts product in the cart at quantity 1 or increments its line.
// The new quantity may not exceed the product's available quantity.
func (s *State) AddOrIncrement(product domain.Product) (Undo, error) {
	undo := s.undoFor(product.ID)

	quantity := 1
	if undo.Existed {
		quantity = undo.Prev.Quantity + 1
	}
	if !product.InStock(quantity) {
		return Undo{}, fmt.Errorf("product[%s] available %d: %w", product.ID, product.Quantity, domain.ErrOutOfStock)
	}

	item := domain.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  quantity,
		Price:     product.Price,
	}
	if undo.Existed {
		s.items[undo.Index] = item
	} else {
		s.items = append(s.items, item)
	}

	return undo, nil
}

// DecrementOrRemove lowers the line by one, dropping it at zero. ok is false
// when the product is not in the cart.
func (s *State) DecrementOrRemove(productID uuid.UUID) (Undo, bool) {
	undo := s.undoFor(productID)
	if !undo.Existed {
		return Undo{}, false
	}

	if undo.Prev.Quantity <= 1 {
		s.items = slices.Delete(s.items, undo.Index, undo.Index+1)
	} else {
		s.items[undo.Index].Quantity--
	}

	return undo, true
}

// Reprice refreshes the name and price of the product's line from the
// catalog. It is a no-op when the product is not in the cart.
func (s *State) Reprice(product domain.Product) {
	if idx := s.index(product.ID); idx >= 0 {
		s.items[idx].Name = product.Name
		s.items[idx].Price = product.Price
	}
}

func (s *State) Remove(productID uuid.UUID) (Undo, bool) {
	undo := s.undoFor(productID)
	if !undo.Existed {
		return Undo{}, false
	}

	s.items = slices.Delete(s.items, undo.Index, undo.Index+1)

	return undo, true
}

// Rollback restores the line described by undo.
func (s *State) Rollback(undo Undo) {
	idx := s.index(undo.ProductID)

	switch {
	case !undo.Existed && idx >= 0:
		s.items = slices.Delete(s.items, idx, idx+1)
	case undo.Existed && idx >= 0:
		s.items[idx] = undo.Prev
	case undo.Existed:
		at := min(max(undo.Index, 0), len(s.items))
		s.items = slices.Insert(s.items, at, undo.Prev)
	}
}

func (s *State) Quantity(productID uuid.UUID) int {
	if idx := s.index(productID); idx >= 0 {
		return s.items[idx].Quantity
	}
	return 0
}

// Snapshot returns a deep copy of the cart.
func (s *State) Snapshot() domain.Cart {
	return domain.Cart{Items: slices.Clone(s.items)}
}

// Clear empties the cart and returns what it held.
func (s *State) Clear() domain.Cart {
	prev := s.Snapshot()
	s.items = nil
	return prev
}

// Replace swaps the whole cart. Non-positive quantities are skipped and
// duplicate product ids are merged into the first line.
func (s *State) Replace(items []domain.CartItem) {
	s.items = nil
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if idx := s.index(item.ProductID); idx >= 0 {
			s.items[idx].Quantity += item.Quantity
			continue
		}
		s.items = append(s.items, item)
	}
}

func (s *State) Len() int {
	return len(s.items)
}

type Totals struct {
	Subtotal    domain.Money
	DeliveryFee domain.Money
	Total       domain.Money
	ItemCount   int
}

// Totals is computed from the current lines on every call.
func (s *State) Totals(deliveryFee domain.Money) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, item := range s.items {
		subtotal = subtotal.Add(item.Price.Times(item.Quantity).Amount)
		count += item.Quantity
	}

	return Totals{
		Subtotal:    domain.Money{Amount: subtotal, Currency: deliveryFee.Currency},
		DeliveryFee: deliveryFee,
		Total:       domain.Money{Amount: subtotal.Add(deliveryFee.Amount), Currency: deliveryFee.Currency},
		ItemCount:   count,
	}
}

func (s *State) undoFor(productID uuid.UUID) Undo {
	idx := s.index(productID)
	if idx < 0 {
		return Undo{ProductID: productID, Index: len(s.items)}
	}

	return Undo{ProductID: productID, Prev: s.items[idx], Existed: true, Index: idx}
}

func (s *State) index(productID uuid.UUID) int {
	return slices.IndexFunc(s.items, func(item domain.CartItem) bool {
		return item.ProductID == productID
	})
}
