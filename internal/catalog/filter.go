package catalog

import (
	"strings"

	"github.com/openshelf/openshelf/internal/domain"
)

// Query is the products-view filter set. The zero value (or "all"
// selectors with PriceMax <= 0) matches every product. All active
// predicates combine with logical AND.
type Query struct {
	Search     string  `json:"search"`
	Category   string  `json:"category"`
	PriceMin   float64 `json:"priceMin"`
	PriceMax   float64 `json:"priceMax"` // <= 0 means unbounded
	StockState string  `json:"stockState"`
}

func (q Query) matches(p domain.Product) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	if q.Category != "" && q.Category != "all" && p.Category != q.Category {
		return false
	}
	if p.Price < q.PriceMin {
		return false
	}
	if q.PriceMax > 0 && p.Price > q.PriceMax {
		return false
	}
	if q.StockState != "" && q.StockState != StockAll && StockStateOf(p.Stock) != q.StockState {
		return false
	}
	return true
}

// Filter returns the products satisfying every active predicate in q,
// preserving input order. An empty result is a valid state.
func Filter(products []domain.Product, q Query) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if q.matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// ClampPriceBound ratchets the slider upper bound: it rises to the
// maximum observed price but is never lowered automatically.
func ClampPriceBound(products []domain.Product, current float64) float64 {
	bound := current
	for _, p := range products {
		if p.Price > bound {
			bound = p.Price
		}
	}
	return bound
}
