package domain

import (
	"fmt"
	"time"
)

// Product is a catalog item. Title is its display name.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"category_id"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category groups products. Name is its display name.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// ProductRoute is the UI detail route for a product.
func ProductRoute(id string) string {
	return fmt.Sprintf("/single/product/%s", id)
}

// CategoryRoute is the UI route listing a category's products.
func CategoryRoute(id string) string {
	return fmt.Sprintf("/category/%s/products", id)
}
