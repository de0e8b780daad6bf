package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// CatalogRepository defines persistence for products and categories.
// List methods return items in catalog order.
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	FindProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)
	FindCategory(ctx context.Context, id string) (*domain.Category, error)
}

// CartRepository stores per-user carts.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// Add increases the quantity of productID by qty and returns the new quantity.
	Add(ctx context.Context, userID, productID string, qty int64) (int64, error)
	Remove(ctx context.Context, userID, productID string) error
	Count(ctx context.Context, userID string) (int, error)
}
