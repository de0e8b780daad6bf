package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// ProductInput carries the create/update product form.
type ProductInput struct {
	Title       string
	Price       float64
	Description string
	CategoryID  string
	Images      []string
}

// ProductPatch carries a partial product update. Nil fields are left as is.
type ProductPatch struct {
	Title       *string
	Price       *float64
	Description *string
	CategoryID  *string
	Images      []string
}

// CatalogService serves products and categories from an in-memory snapshot.
type CatalogService interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	// Categories implements fetch-category-data.
	Categories(ctx context.Context) ([]domain.Category, error)
	CategoryProducts(ctx context.Context, categoryID string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in ProductPatch) (*domain.Product, error)
	// Search filters the collection selected by mode.
	Search(ctx context.Context, mode domain.SearchMode, query string) ([]domain.SearchEntry, error)
}

// CartService manages the viewer's cart.
type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Add(ctx context.Context, userID, productID string, qty int64) (*domain.Cart, error)
	Remove(ctx context.Context, userID, productID string) (*domain.Cart, error)
	Count(ctx context.Context, userID string) (int, error)
}

// NavigationService assembles the navigation bar for a viewer.
type NavigationService interface {
	Build(ctx context.Context, viewer domain.Viewer) (*domain.Navigation, error)
}
