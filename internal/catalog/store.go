package catalog

import (
	"context"
	"errors"
	"fmt"
)

const PlaceholderImage = "https://via.placeholder.com/150"

var ErrNotFound = errors.New("product not found")

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int64   `json:"stock"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// Store holds the catalog. Create assigns the identifier; the ID of p is ignored.
type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, bool, error)
	Create(ctx context.Context, p Product) (Product, error)
	UpdateStock(ctx context.Context, id, stock int64) (Product, error)
}

func seedProducts() []Product {
	return []Product{
		{ID: 1, Name: "iPhone 14", Description: "Apple smartphone", Price: 999, Stock: 5, Category: "Electronics", Image: PlaceholderImage},
		{ID: 2, Name: "Samsung TV", Description: "55 inch Smart TV", Price: 699, Stock: 8, Category: "Electronics", Image: PlaceholderImage},
		{ID: 3, Name: "Nike Shoes", Description: "Running shoes", Price: 120, Stock: 15, Category: "Clothing", Image: PlaceholderImage},
	}
}
