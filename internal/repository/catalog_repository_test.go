package repository_test

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *repositorySuite) TestSaveAndListProducts() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	category := domain.Category{ID: uuid.MustParse(gofakeit.UUID()), Name: "Snacks"}
	require.NoError(t, suite.catalog.SaveCategory(ctx, category))

	withCategory := randomProduct(7)
	withCategory.Name = "a " + withCategory.Name
	withCategory.CategoryID = uuid.NullUUID{UUID: category.ID, Valid: true}

	withoutImage := randomProduct(0)
	withoutImage.Name = "b " + withoutImage.Name
	withoutImage.ImageURL = ""

	require.NoError(t, suite.catalog.SaveProduct(ctx, withCategory))
	require.NoError(t, suite.catalog.SaveProduct(ctx, withoutImage))

	products, err := suite.catalog.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assertProduct(t, withCategory, products[0])
	assertProduct(t, withoutImage, products[1])

	categories, err := suite.catalog.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{category}, categories)
}

func (suite *repositorySuite) TestSaveProductUpdatesExisting() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	product := suite.seedProduct(3)
	product.Quantity = 9
	product.Price = usd("1.50")

	require.NoError(t, suite.catalog.SaveProduct(ctx, product))

	products, err := suite.catalog.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assertProduct(t, product, products[0])
}

func (suite *repositorySuite) TestSaveProductInvalid() {
	tests := []struct {
		name      string
		mutate    func(p *domain.Product)
		wantError string
	}{
		{
			name:      "empty name: error",
			mutate:    func(p *domain.Product) { p.Name = "" },
			wantError: "product name is empty",
		},
		{
			name:      "negative quantity: error",
			mutate:    func(p *domain.Product) { p.Quantity = -1 },
			wantError: "quantity -1: invalid quantity",
		},
		{
			name:      "negative price: error",
			mutate:    func(p *domain.Product) { p.Price = usd("-1") },
			wantError: "price is negative",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			product := randomProduct(1)
			tt.mutate(&product)

			err := suite.catalog.SaveProduct(t.Context(), product)
			require.EqualError(t, err, tt.wantError)
		})
	}
}
