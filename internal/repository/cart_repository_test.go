package repository_test

import (
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *repositorySuite) TestCreateCart() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		ownerID   string
		wantError string
	}{
		{
			name:    "create cart: ok",
			ownerID: gofakeit.UUID(),
		},
		{
			name:      "create cart with empty owner ID: error",
			ownerID:   "",
			wantError: "ownerID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			cartID, err := suite.carts.CreateCart(ctx, tt.ownerID)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, cartID)

			// a second create returns the same record
			again, err := suite.carts.CreateCart(ctx, tt.ownerID)
			require.NoError(t, err)
			assert.Equal(t, cartID, again)

			found, err := suite.carts.FindCartID(ctx, tt.ownerID)
			require.NoError(t, err)
			assert.Equal(t, cartID, found)
		})
	}
}

func (suite *repositorySuite) TestCreateCartConcurrently() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ownerID := gofakeit.UUID()

	const workers = 8
	ids := make([]uuid.UUID, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i], errs[i] = suite.carts.CreateCart(ctx, ownerID)
		}()
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func (suite *repositorySuite) TestFindCartIDNotFound() {
	t := suite.T()

	_, err := suite.carts.FindCartID(t.Context(), gofakeit.UUID())
	require.ErrorIs(t, err, domain.ErrNoRemoteCart)
}

func (suite *repositorySuite) TestGetCart() {
	defer suite.deleteAll()

	tests := []struct {
		name       string
		ownerID    string
		createCart bool
		setupItems []domain.RemoteCartItem
		wantErrIs  error
		wantError  string
	}{
		{
			name:       "get cart with items: ok",
			ownerID:    gofakeit.UUID(),
			createCart: true,
			setupItems: []domain.RemoteCartItem{
				{ProductID: uuid.MustParse(gofakeit.UUID()), Quantity: 2},
				{ProductID: uuid.MustParse(gofakeit.UUID()), Quantity: 1},
			},
		},
		{
			name:       "get empty cart: ok",
			ownerID:    gofakeit.UUID(),
			createCart: true,
		},
		{
			name:      "get missing cart: not found",
			ownerID:   gofakeit.UUID(),
			wantErrIs: domain.ErrNoRemoteCart,
		},
		{
			name:      "get cart with empty owner ID: error",
			ownerID:   "",
			wantError: "ownerID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			var cartID uuid.UUID
			if tt.createCart {
				var err error
				cartID, err = suite.carts.CreateCart(ctx, tt.ownerID)
				require.NoError(t, err)
			}
			for _, item := range tt.setupItems {
				require.NoError(t, suite.carts.UpsertItem(ctx, cartID, item.ProductID, item.Quantity))
			}

			cart, err := suite.carts.GetCart(ctx, tt.ownerID)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, cartID, cart.ID)
			assert.Equal(t, tt.ownerID, cart.OwnerID)
			require.Len(t, cart.Items, len(tt.setupItems))

			for i, expected := range tt.setupItems {
				assert.Equal(t, expected.ProductID, cart.Items[i].ProductID)
				assert.Equal(t, expected.Quantity, cart.Items[i].Quantity)
				assert.False(t, cart.Items[i].UpdatedAt.IsZero())
			}
		})
	}
}

func (suite *repositorySuite) TestUpsertItem() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.UUID()
	productID := uuid.MustParse(gofakeit.UUID())

	cartID, err := suite.carts.CreateCart(ctx, ownerID)
	require.NoError(t, err)

	require.NoError(t, suite.carts.UpsertItem(ctx, cartID, productID, 1))
	require.NoError(t, suite.carts.UpsertItem(ctx, cartID, productID, 3))

	cart, err := suite.carts.GetCart(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	err = suite.carts.UpsertItem(ctx, cartID, productID, 0)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	err = suite.carts.UpsertItem(ctx, uuid.Nil, productID, 1)
	require.EqualError(t, err, "cartID is empty")
}

func (suite *repositorySuite) TestDeleteItem() {
	defer suite.deleteAll()

	tests := []struct {
		name        string
		existing    bool
		wantDeleted bool
	}{
		{
			name:        "delete existing item: ok",
			existing:    true,
			wantDeleted: true,
		},
		{
			name:        "delete non-existing item: not found",
			existing:    false,
			wantDeleted: false,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			ownerID := gofakeit.UUID()
			productID := uuid.MustParse(gofakeit.UUID())

			cartID, err := suite.carts.CreateCart(ctx, ownerID)
			require.NoError(t, err)

			// an unrelated line must survive the delete
			other := uuid.MustParse(gofakeit.UUID())
			require.NoError(t, suite.carts.UpsertItem(ctx, cartID, other, 1))

			if tt.existing {
				require.NoError(t, suite.carts.UpsertItem(ctx, cartID, productID, 2))
			}

			deleted, err := suite.carts.DeleteItem(ctx, cartID, productID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, deleted)

			cart, err := suite.carts.GetCart(ctx, ownerID)
			require.NoError(t, err)
			require.Len(t, cart.Items, 1)
			assert.Equal(t, other, cart.Items[0].ProductID)
		})
	}
}
