// Package memstore is an in-memory remote store: catalog, carts and orders
// behind a single mutex. It honours the same contracts as the Postgres
// repositories, including the all-or-nothing order placement.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
)

type remoteCart struct {
	id    uuid.UUID
	items map[uuid.UUID]domain.RemoteCartItem
	order []uuid.UUID // insertion order of items
}

type Store struct {
	mu         sync.RWMutex
	products   map[uuid.UUID]domain.Product
	categories map[uuid.UUID]domain.Category
	carts      map[string]*remoteCart // ownerID -> cart
	orders     map[string][]domain.Order

	now func() time.Time
}

func New() *Store {
	return &Store{
		products:   make(map[uuid.UUID]domain.Product),
		categories: make(map[uuid.UUID]domain.Category),
		carts:      make(map[string]*remoteCart),
		orders:     make(map[string][]domain.Order),
		now:        time.Now,
	}
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	slices.SortFunc(products, func(a, b domain.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID.String(), b.ID.String()))
	})

	return products, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	slices.SortFunc(categories, func(a, b domain.Category) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID.String(), b.ID.String()))
	})

	return categories, nil
}

func (s *Store) SaveCategory(ctx context.Context, category domain.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if category.Name == "" {
		return fmt.Errorf("category name is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories[category.ID] = category
	return nil
}

func (s *Store) SaveProduct(ctx context.Context, product domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if product.Name == "" {
		return fmt.Errorf("product name is empty")
	}
	if product.Quantity < 0 {
		return fmt.Errorf("quantity %d: %w", product.Quantity, domain.ErrInvalidQuantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// the category name is denormalised by the catalog, not stored here
	product.Category = ""
	s.products[product.ID] = product
	return nil
}

// Stock returns the available quantity of a product.
func (s *Store) Stock(productID uuid.UUID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[productID]
	return p.Quantity, ok
}

// DeleteProduct removes a product from the catalog; cart lines pointing at it are kept.
func (s *Store) DeleteProduct(productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.products, productID)
}
