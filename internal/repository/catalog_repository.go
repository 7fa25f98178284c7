package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/shopcart/internal/db"
	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/nikolayk812/shopcart/internal/port"
	"golang.org/x/text/currency"
)

type catalogRepository struct {
	q *db.Queries
}

func NewCatalog(pool *pgxpool.Pool) port.CatalogRepository {
	return &catalogRepository{
		q: db.New(pool),
	}
}

func (r *catalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.q.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListProducts: %w", err)
	}

	products, err := mapProductRowsToDomain(rows)
	if err != nil {
		return nil, fmt.Errorf("mapProductRowsToDomain: %w", err)
	}

	return products, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.q.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListCategories: %w", err)
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, domain.Category{ID: row.CategoryID, Name: row.CategoryName})
	}

	return categories, nil
}

func (r *catalogRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	if category.Name == "" {
		return fmt.Errorf("category name is empty")
	}

	err := r.q.UpsertCategory(ctx, db.UpsertCategoryParams{
		CategoryID:   category.ID,
		CategoryName: category.Name,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertCategory: %w", err)
	}

	return nil
}

func (r *catalogRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	if product.Name == "" {
		return fmt.Errorf("product name is empty")
	}
	if product.Quantity < 0 {
		return fmt.Errorf("quantity %d: %w", product.Quantity, domain.ErrInvalidQuantity)
	}
	if product.Price.Amount.IsNegative() {
		return fmt.Errorf("price is negative")
	}

	var imageURL *string
	if product.ImageURL != "" {
		imageURL = &product.ImageURL
	}

	err := r.q.UpsertProduct(ctx, db.UpsertProductParams{
		ProductID:     product.ID,
		ProductName:   product.Name,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		Quantity:      int32(product.Quantity),
		CategoryID:    product.CategoryID,
		ImageUrl:      imageURL,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertProduct: %w", err)
	}

	return nil
}

func mapProductRowToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(strings.TrimSpace(row.PriceCurrency))
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	var imageURL string
	if row.ImageUrl != nil {
		imageURL = *row.ImageUrl
	}

	return domain.Product{
		ID:         row.ProductID,
		Name:       row.ProductName,
		Price:      domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Quantity:   int(row.Quantity),
		CategoryID: row.CategoryID,
		ImageURL:   imageURL,
	}, nil
}

func mapProductRowsToDomain(rows []db.Product) ([]domain.Product, error) {
	var products []domain.Product

	for _, row := range rows {
		product, err := mapProductRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductRowToDomain: %w", err)
		}

		products = append(products, product)
	}

	return products, nil
}
