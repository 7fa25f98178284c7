package repository_test

import (
	"errors"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/nikolayk812/shopcart/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *repositorySuite) TestPlaceOrder() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	userID := gofakeit.UUID()
	p1 := suite.seedProduct(5)
	p2 := suite.seedProduct(1)

	cartID, err := suite.carts.CreateCart(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, suite.carts.UpsertItem(ctx, cartID, p1.ID, 2))
	require.NoError(t, suite.carts.UpsertItem(ctx, cartID, p2.ID, 1))

	req := domain.PlaceOrderRequest{
		UserID: userID,
		Lines: []domain.OrderLine{
			{ProductID: p1.ID, Quantity: 2, Price: p1.Price},
			{ProductID: p2.ID, Quantity: 1, Price: p2.Price},
		},
		DeliveryFee: usd("4.99"),
	}

	orderID, err := suite.orders.PlaceOrder(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, orderID)

	assert.Equal(t, 3, suite.stock(p1.ID))
	assert.Equal(t, 0, suite.stock(p2.ID))

	// the remote cart record stays, its lines are gone
	cart, err := suite.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, cartID, cart.ID)
	assert.Empty(t, cart.Items)

	orders, err := suite.orders.ListOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.True(t, req.Total().Equal(order.Total), "total %s != %s", order.Total, req.Total())
	assert.False(t, order.CreatedAt.IsZero())
	require.Len(t, order.Items, 2)

	byProduct := make(map[uuid.UUID]domain.OrderItem)
	for _, item := range order.Items {
		byProduct[item.ProductID] = item
	}
	assert.Equal(t, 2, byProduct[p1.ID].Quantity)
	assert.Equal(t, p1.Name, byProduct[p1.ID].ProductName)
	assert.True(t, p1.Price.Equal(byProduct[p1.ID].Price))
	assert.Equal(t, 1, byProduct[p2.ID].Quantity)
}

func (suite *repositorySuite) TestPlaceOrderInsufficientStock() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	userID := gofakeit.UUID()
	enough := suite.seedProduct(10)
	scarce := suite.seedProduct(3)

	cartID, err := suite.carts.CreateCart(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, suite.carts.UpsertItem(ctx, cartID, scarce.ID, 5))

	_, err = suite.orders.PlaceOrder(ctx, domain.PlaceOrderRequest{
		UserID: userID,
		Lines: []domain.OrderLine{
			{ProductID: enough.ID, Quantity: 4, Price: enough.Price},
			{ProductID: scarce.ID, Quantity: 5, Price: scarce.Price},
		},
		DeliveryFee: usd("4.99"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, scarce.ID, stockErr.ProductID)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	// nothing changed
	assert.Equal(t, 10, suite.stock(enough.ID))
	assert.Equal(t, 3, suite.stock(scarce.ID))

	orders, err := suite.orders.ListOrders(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, orders)

	cart, err := suite.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func (suite *repositorySuite) TestPlaceOrderInvalid() {
	defer suite.deleteAll()

	known := suite.seedProduct(1)

	tests := []struct {
		name      string
		req       domain.PlaceOrderRequest
		wantErrIs error
		wantError string
	}{
		{
			name:      "no lines: cart empty",
			req:       domain.PlaceOrderRequest{UserID: gofakeit.UUID(), DeliveryFee: usd("4.99")},
			wantErrIs: domain.ErrCartEmpty,
		},
		{
			name: "empty user: error",
			req: domain.PlaceOrderRequest{
				Lines:       []domain.OrderLine{{ProductID: known.ID, Quantity: 1, Price: known.Price}},
				DeliveryFee: usd("4.99"),
			},
			wantError: "req.Validate: userID is empty",
		},
		{
			name: "zero quantity: invalid",
			req: domain.PlaceOrderRequest{
				UserID:      gofakeit.UUID(),
				Lines:       []domain.OrderLine{{ProductID: known.ID, Quantity: 0, Price: known.Price}},
				DeliveryFee: usd("4.99"),
			},
			wantErrIs: domain.ErrInvalidQuantity,
		},
		{
			name: "unknown product: not found",
			req: domain.PlaceOrderRequest{
				UserID:      gofakeit.UUID(),
				Lines:       []domain.OrderLine{{ProductID: uuid.MustParse(gofakeit.UUID()), Quantity: 1, Price: usd("1")}},
				DeliveryFee: usd("4.99"),
			},
			wantErrIs: domain.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			_, err := suite.orders.PlaceOrder(t.Context(), tt.req)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
			} else {
				require.ErrorIs(t, err, tt.wantErrIs)
			}

			assert.Equal(t, 1, suite.stock(known.ID))
		})
	}
}

func (suite *repositorySuite) TestPlaceOrderConcurrentLastUnit() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	product := suite.seedProduct(1)

	const buyers = 4
	errs := make([]error, buyers)

	var wg sync.WaitGroup
	for i := range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = suite.orders.PlaceOrder(ctx, domain.PlaceOrderRequest{
				UserID:      gofakeit.UUID(),
				Lines:       []domain.OrderLine{{ProductID: product.ID, Quantity: 1, Price: product.Price}},
				DeliveryFee: usd("4.99"),
			})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, suite.stock(product.ID))
}

func (suite *repositorySuite) TestListOrdersEmptyUser() {
	_, err := suite.orders.ListOrders(suite.T().Context(), "")
	require.EqualError(suite.T(), err, "userID is empty")
}

func (suite *repositorySuite) TestPlaceOrderInCallerTransaction() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	userID := gofakeit.UUID()
	p := suite.seedProduct(4)

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	carts := repository.NewCartWithTx(tx)
	orders := repository.NewOrderWithTx(tx)

	cartID, err := carts.CreateCart(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, carts.UpsertItem(ctx, cartID, p.ID, 3))

	_, err = orders.PlaceOrder(ctx, domain.PlaceOrderRequest{
		UserID:      userID,
		Lines:       []domain.OrderLine{{ProductID: p.ID, Quantity: 3, Price: p.Price}},
		DeliveryFee: usd("4.99"),
	})
	require.NoError(t, err)

	placed, err := orders.ListOrders(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, placed, 1)

	// nothing is visible outside the caller's transaction until it commits
	assert.Equal(t, 4, suite.stock(p.ID))

	require.NoError(t, tx.Rollback(ctx))

	assert.Equal(t, 4, suite.stock(p.ID))
	_, err = suite.carts.FindCartID(ctx, userID)
	require.ErrorIs(t, err, domain.ErrNoRemoteCart)

	placed, err = suite.orders.ListOrders(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, placed)
}
