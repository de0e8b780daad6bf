package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type productFinder interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
}

// CartService manages per-user carts. Only products present in the catalog
// can be added.
type CartService struct {
	carts    ports.CartRepository
	products productFinder
}

func NewCartService(carts ports.CartRepository, products productFinder) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return cart, nil
}

func (s *CartService) Add(ctx context.Context, userID, productID string, qty int64) (*domain.Cart, error) {
	productID = strings.TrimSpace(productID)

	verr := &domain.ValidationError{Form: domain.FormCartItem}
	if qty < 1 {
		verr.Fields = append(verr.Fields, domain.NewFieldError(domain.FormCartItem, domain.FieldQuantity, domain.KindOutOfRange))
	}
	if productID == "" {
		verr.Fields = append(verr.Fields, domain.NewFieldError(domain.FormCartItem, domain.FieldProductID, domain.KindRequired))
	} else if _, err := s.products.Product(ctx, productID); errors.Is(err, domain.ErrProductNotFound) {
		verr.Fields = append(verr.Fields, domain.NewFieldError(domain.FormCartItem, domain.FieldProductID, domain.KindNotFound))
	} else if err != nil {
		return nil, err
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	if _, err := s.carts.Add(ctx, userID, productID, qty); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Remove(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if err := s.carts.Remove(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("remove from cart: %w", err)
	}
	return s.Get(ctx, userID)
}

// Count returns the number of lines in the user's cart.
func (s *CartService) Count(ctx context.Context, userID string) (int, error) {
	return s.carts.Count(ctx, userID)
}
