package domain

import (
	"github.com/google/uuid"
)

const UncategorizedName = "uncategorized"

type Product struct {
	ID         uuid.UUID
	Name       string
	Price      Money
	Quantity   int
	CategoryID uuid.NullUUID
	Category   string
	ImageURL   string
}

// InStock reports whether quantity units can be taken from the available stock.
func (p Product) InStock(quantity int) bool {
	return quantity > 0 && p.Quantity >= quantity
}

type Category struct {
	ID   uuid.UUID
	Name string
}
