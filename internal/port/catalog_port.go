package port

import (
	"context"

	"github.com/nikolayk812/shopcart/internal/domain"
)

type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	SaveCategory(ctx context.Context, category domain.Category) error
	SaveProduct(ctx context.Context, product domain.Product) error
}
