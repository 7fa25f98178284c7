package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/checkout"
	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/nikolayk812/shopcart/internal/memstore"
	"github.com/nikolayk812/shopcart/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

// countingOrders records every PlaceOrder call that reaches the store.
type countingOrders struct {
	port.OrderRepository
	calls int
}

func (c *countingOrders) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (uuid.UUID, error) {
	c.calls++
	return c.OrderRepository.PlaceOrder(ctx, req)
}

type refresher struct {
	calls int
	err   error
}

func (r *refresher) Refresh(context.Context) error {
	r.calls++
	return r.err
}

func usd(amount string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), currency.USD)
}

type fixture struct {
	store     *memstore.Store
	orders    *countingOrders
	refresher *refresher
	service   *checkout.Service
	product   domain.Product
	ident     *domain.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	product := domain.Product{ID: uuid.New(), Name: "Coffee", Price: usd("7.25"), Quantity: 3}
	require.NoError(t, store.SaveProduct(t.Context(), product))

	orders := &countingOrders{OrderRepository: store}
	r := &refresher{}

	return &fixture{
		store:     store,
		orders:    orders,
		refresher: r,
		service:   checkout.New(orders, r, nil),
		product:   product,
		ident:     &domain.Identity{UserID: uuid.NewString(), Email: "buyer@example.com"},
	}
}

func (f *fixture) cart(quantity int) domain.Cart {
	return domain.Cart{
		OwnerID: f.ident.UserID,
		Items: []domain.CartItem{{
			ProductID: f.product.ID,
			Name:      f.product.Name,
			Quantity:  quantity,
			Price:     f.product.Price,
		}},
	}
}

func TestPlaceOrderPreconditions(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		ident *domain.Identity
		cart  domain.Cart
		want  error
	}{
		{
			name: "anonymous",
			cart: f.cart(1),
			want: domain.ErrNotAuthenticated,
		},
		{
			name:  "identity without user",
			ident: &domain.Identity{},
			cart:  f.cart(1),
			want:  domain.ErrNotAuthenticated,
		},
		{
			name:  "empty cart",
			ident: f.ident,
			want:  domain.ErrCartEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.PlaceOrder(t.Context(), tt.ident, tt.cart, usd("4.99"))
			require.ErrorIs(t, err, tt.want)
		})
	}

	assert.Zero(t, f.orders.calls, "no remote call")
	assert.Zero(t, f.refresher.calls)
}

func TestPlaceOrderSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	orderID, err := f.service.PlaceOrder(ctx, f.ident, f.cart(2), usd("4.99"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.orders.calls)
	assert.Equal(t, 1, f.refresher.calls)

	stock, _ := f.store.Stock(f.product.ID)
	assert.Equal(t, 1, stock)

	orders, err := f.service.Orders(ctx, f.ident)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)
	assert.True(t, usd("19.49").Equal(orders[0].Total), orders[0].Total.String())
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	_, err := f.service.PlaceOrder(ctx, f.ident, f.cart(4), usd("4.99"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, domain.ClassBusinessRule, domain.Classify(err))

	assert.Zero(t, f.refresher.calls)

	stock, _ := f.store.Stock(f.product.ID)
	assert.Equal(t, 3, stock)

	orders, err := f.service.Orders(ctx, f.ident)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlaceOrderStandsWhenRefreshFails(t *testing.T) {
	f := newFixture(t)
	f.refresher.err = errors.New("catalog offline")

	orderID, err := f.service.PlaceOrder(t.Context(), f.ident, f.cart(1), usd("4.99"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, orderID)
	assert.Equal(t, 1, f.refresher.calls)
}

func TestOrdersRequiresIdentity(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Orders(t.Context(), nil)
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}
