package ports

import (
	"context"
	"io"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// LoginInput carries the login form.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token string
	User  *domain.User
}

// AvatarUpload is the image submitted with the registration form.
type AvatarUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// RegisterInput carries the registration form after schema validation.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Avatar   AvatarUpload
}

// AuthService implements the login, create-user and clear-login intents.
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Logout(ctx context.Context, viewer domain.Viewer) error
}

// UpdateUserInput carries a partial profile update. Nil fields are left as is.
type UpdateUserInput struct {
	ID       string
	Username *string
	Email    *string
	Password *string
	Avatar   *string
	Role     *string
}

// UserService implements the fetch-all-users and update-user intents.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, viewer domain.Viewer, in UpdateUserInput) (*domain.User, error)
	Avatar(ctx context.Context, id string) ([]byte, string, error)
}
