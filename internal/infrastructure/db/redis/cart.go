package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// CartStore keeps each cart as a hash of product id to quantity.
// Key format: cart:<user_id>
type CartStore struct {
	client *redis.Client
}

func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client}
}

// Get returns the cart lines ordered by product id.
func (s *CartStore) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	fields, err := s.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	cart := &domain.Cart{UserID: userID, Items: make([]domain.CartItem, 0, len(fields))}
	for productID, raw := range fields {
		qty, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cart %s: bad quantity for %s: %w", userID, productID, err)
		}
		cart.Items = append(cart.Items, domain.CartItem{ProductID: productID, Quantity: qty})
	}
	sort.Slice(cart.Items, func(i, j int) bool {
		return cart.Items[i].ProductID < cart.Items[j].ProductID
	})
	return cart, nil
}

func (s *CartStore) Add(ctx context.Context, userID, productID string, qty int64) (int64, error) {
	n, err := s.client.HIncrBy(ctx, cartKey(userID), productID, qty).Result()
	if err != nil {
		return 0, fmt.Errorf("add to cart: %w", err)
	}
	return n, nil
}

func (s *CartStore) Remove(ctx context.Context, userID, productID string) error {
	if err := s.client.HDel(ctx, cartKey(userID), productID).Err(); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

// Count returns the number of distinct products in the cart.
func (s *CartStore) Count(ctx context.Context, userID string) (int, error) {
	n, err := s.client.HLen(ctx, cartKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("count cart: %w", err)
	}
	return int(n), nil
}

func cartKey(userID string) string {
	return "cart:" + userID
}
