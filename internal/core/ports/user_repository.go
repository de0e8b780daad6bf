package ports

import (
	"context"
	"time"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// UserRepository defines persistence for storefront accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update replaces the mutable fields of an existing user.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}

// AvatarStore keeps uploaded profile images.
type AvatarStore interface {
	// Save stores the image and returns its id.
	Save(ctx context.Context, filename, contentType string, data []byte) (string, error)
	// Open returns the image bytes and content type.
	Open(ctx context.Context, id string) ([]byte, string, error)
}

// SessionStore tracks revoked tokens until they would have expired anyway.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
