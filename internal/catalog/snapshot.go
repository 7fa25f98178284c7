package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
)

// Snapshot is an immutable view of one catalog fetch.
type Snapshot struct {
	products   map[uuid.UUID]domain.Product
	ordered    []domain.Product
	categories []domain.Category
}

func NewSnapshot(products []domain.Product, categories []domain.Category) *Snapshot {
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	s := &Snapshot{
		products:   make(map[uuid.UUID]domain.Product, len(products)),
		ordered:    make([]domain.Product, 0, len(products)),
		categories: slices.Clone(categories),
	}

	for _, p := range products {
		p.Category = domain.UncategorizedName
		if p.CategoryID.Valid {
			if name, ok := names[p.CategoryID.UUID]; ok {
				p.Category = strings.ToLower(name)
			}
		}

		s.products[p.ID] = p
		s.ordered = append(s.ordered, p)
	}

	slices.SortFunc(s.ordered, func(a, b domain.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID.String(), b.ID.String()))
	})
	slices.SortFunc(s.categories, func(a, b domain.Category) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return s
}

func (s *Snapshot) Product(id uuid.UUID) (domain.Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

func (s *Snapshot) Products() []domain.Product {
	return slices.Clone(s.ordered)
}

func (s *Snapshot) Categories() []domain.Category {
	return slices.Clone(s.categories)
}

func (s *Snapshot) Len() int {
	return len(s.ordered)
}

// InCategory filters by the lower-cased category name; "all" matches everything.
func (s *Snapshot) InCategory(category string) []domain.Product {
	category = strings.ToLower(category)
	if category == "" || category == "all" {
		return s.Products()
	}

	var result []domain.Product
	for _, p := range s.ordered {
		if p.Category == category {
			result = append(result, p)
		}
	}

	return result
}

// Search matches products whose name or category contains query, ignoring case.
func (s *Snapshot) Search(query string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.Products()
	}

	var result []domain.Product
	for _, p := range s.ordered {
		if strings.Contains(strings.ToLower(p.Name), query) || strings.Contains(p.Category, query) {
			result = append(result, p)
		}
	}

	return result
}
