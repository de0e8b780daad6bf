package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const minPasswordLen = 6

// UserService manages existing accounts.
type UserService struct {
	users   ports.UserRepository
	avatars ports.AvatarStore
	events  ports.EventSink
	log     zerolog.Logger
}

func NewUserService(users ports.UserRepository, avatars ports.AvatarStore, events ports.EventSink, log zerolog.Logger) *UserService {
	return &UserService{users: users, avatars: avatars, events: events, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Update applies a partial profile change. Viewers may edit only their own
// account unless they are admins, and only admins may change a role.
func (s *UserService) Update(ctx context.Context, viewer domain.Viewer, in ports.UpdateUserInput) (*domain.User, error) {
	isAdmin := viewer.Role == domain.RoleAdmin
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if viewer.UserID != in.ID && !isAdmin {
		return nil, domain.ErrForbidden
	}
	if in.Role != nil && !isAdmin {
		return nil, domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	verr := &domain.ValidationError{Form: domain.FormUserUpdate}
	if in.Email != nil && !domain.ValidEmail(*in.Email) {
		verr.Fields = append(verr.Fields, domain.NewFieldError(domain.FormUserUpdate, domain.FieldEmail, domain.KindInvalidFormat))
	}
	if in.Password != nil && len(*in.Password) < minPasswordLen {
		verr.Fields = append(verr.Fields, domain.NewFieldError(domain.FormUserUpdate, domain.FieldPassword, domain.KindTooShort))
	}
	if in.Role != nil && !domain.ValidRole(*in.Role) {
		verr.Fields = append(verr.Fields, domain.NewFieldError(domain.FormUserUpdate, domain.FieldRole, domain.KindInvalid))
	}

	var username, email string
	if in.Username != nil && *in.Username != user.Username {
		username = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil && *in.Email != user.Email {
		email = *in.Email
	}
	if err := checkAvailable(ctx, s.users, domain.FormUserUpdate, username, email, user.ID, verr); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("update user: hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.events.Enqueue(domain.NewUserEvent(domain.EventUserUpdated, updated))
	s.log.Info().Str("user_id", updated.ID).Str("by", viewer.UserID).Msg("user updated")

	return updated, nil
}

// Avatar returns a stored avatar image and its content type.
func (s *UserService) Avatar(ctx context.Context, id string) ([]byte, string, error) {
	return s.avatars.Open(ctx, id)
}

// EnsureAdmin creates an admin account for email unless one exists. An
// existing account with that email is promoted to admin.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return nil
		}
		existing.Role = domain.RoleAdmin
		existing.UpdatedAt = time.Now().UTC()
		if _, err := s.users.Update(ctx, existing); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		s.log.Info().Str("user_id", existing.ID).Msg("existing user promoted to admin")
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("find admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     strings.SplitN(email, "@", 2)[0],
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("admin account created")
	return nil
}
