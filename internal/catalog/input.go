package catalog

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const (
	// Largest stock that survives a float64 round trip.
	maxStock = 1 << 53
	// Upper bound on a unit price. Keeps price×stock well inside float64 range.
	maxPrice = 1_000_000_000
)

// CreateInput carries the raw form values of a new product.
type CreateInput struct {
	Name        string
	Description string
	Price       string
	Stock       string
	Category    string
}

// CreateInputFromMap reads a decoded JSON object. Numbers and strings are both accepted.
func CreateInputFromMap(m map[string]any) CreateInput {
	str := func(k string) string {
		s, err := cast.ToStringE(m[k])
		if err != nil {
			return ""
		}
		return s
	}
	return CreateInput{
		Name:        str("name"),
		Description: str("description"),
		Price:       str("price"),
		Stock:       str("stock"),
		Category:    str("category"),
	}
}

// ParseCreateInput validates in and returns the product to insert, without ID and image.
// Zero price or stock is rejected along with missing values.
func ParseCreateInput(in CreateInput) (Product, error) {
	p := Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
	}

	required := []struct{ field, value string }{
		{"name", p.Name},
		{"description", p.Description},
		{"price", strings.TrimSpace(in.Price)},
		{"stock", strings.TrimSpace(in.Stock)},
		{"category", p.Category},
	}
	for _, r := range required {
		if r.value == "" {
			return Product{}, &ValidationError{Field: r.field, Reason: "required"}
		}
	}

	price, err := ParsePrice(in.Price)
	if err != nil {
		return Product{}, err
	}
	if price <= 0 {
		return Product{}, &ValidationError{Field: "price", Reason: "must be greater than zero"}
	}

	stock, err := ParseStock(in.Stock)
	if err != nil {
		return Product{}, err
	}
	if stock == 0 {
		return Product{}, &ValidationError{Field: "stock", Reason: "must be greater than zero"}
	}

	p.Price = price
	p.Stock = stock
	return p, nil
}

func ParsePrice(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, &ValidationError{Field: "price", Reason: "must be a number"}
	}
	if d.IsNegative() {
		return 0, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if d.GreaterThan(decimal.NewFromInt(maxPrice)) {
		return 0, &ValidationError{Field: "price", Reason: "must not exceed 1000000000"}
	}
	return d.InexactFloat64(), nil
}

// ParseStock accepts a whole, non-negative number given as a JSON number or a string.
func ParseStock(v any) (int64, error) {
	if _, ok := v.(bool); ok {
		return 0, &ValidationError{Field: "stock", Reason: "must be a whole number"}
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > maxStock {
		return 0, &ValidationError{Field: "stock", Reason: "must be a whole number"}
	}
	if f < 0 {
		return 0, &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	return int64(f), nil
}
