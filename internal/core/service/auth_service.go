package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const (
	defaultTokenTTL       = 24 * time.Hour
	defaultMaxAvatarBytes = 2 << 20
)

// AuthConfig holds the tunables of AuthService.
type AuthConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration
	MaxAvatarBytes int64
}

// AuthService implements login, registration and logout.
type AuthService struct {
	users    ports.UserRepository
	avatars  ports.AvatarStore
	sessions ports.SessionStore
	events   ports.EventSink
	cfg      AuthConfig
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	avatars ports.AvatarStore,
	sessions ports.SessionStore,
	events ports.EventSink,
	cfg AuthConfig,
	log zerolog.Logger,
) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.MaxAvatarBytes <= 0 {
		cfg.MaxAvatarBytes = defaultMaxAvatarBytes
	}
	return &AuthService{
		users:    users,
		avatars:  avatars,
		sessions: sessions,
		events:   events,
		cfg:      cfg,
		log:      log,
	}
}

// Login checks the credentials and issues a session token. An unknown email
// is reported on the email field and a wrong password on the password field.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if verr := requireFields(domain.FormLogin,
		fieldValue{domain.FieldEmail, in.Email},
		fieldValue{domain.FieldPassword, in.Password},
	); verr != nil {
		return nil, verr
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.NewValidationError(domain.FormLogin, domain.FieldEmail, domain.KindNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.NewValidationError(domain.FormLogin, domain.FieldPassword, domain.KindWrongPassword)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	s.events.Enqueue(domain.NewUserEvent(domain.EventUserLoggedIn, user))
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.LoginResult{Token: token, User: user}, nil
}

// Register creates a customer account with an avatar image. Existing
// usernames and emails are reported as unavailable on their fields.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if verr := requireFields(domain.FormRegistration,
		fieldValue{domain.FieldUsername, in.Username},
		fieldValue{domain.FieldEmail, in.Email},
		fieldValue{domain.FieldPassword, in.Password},
	); verr != nil {
		return nil, verr
	}

	verr := &domain.ValidationError{Form: domain.FormRegistration}
	if err := checkAvailable(ctx, s.users, domain.FormRegistration, in.Username, in.Email, "", verr); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	data, contentType, kind := s.readAvatar(in.Avatar)
	if kind != "" {
		verr.Fields = append(verr.Fields, domain.NewFieldError(domain.FormRegistration, domain.FieldAvatarFile, kind))
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	avatarID, err := s.avatars.Save(ctx, in.Avatar.Filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("register: store avatar: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		Avatar:       domain.AvatarPath(avatarID),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.events.Enqueue(domain.NewUserEvent(domain.EventUserRegistered, created))
	s.log.Info().Str("user_id", created.ID).Msg("user registered")

	return created, nil
}

// Logout revokes the viewer's token until it expires.
func (s *AuthService) Logout(ctx context.Context, viewer domain.Viewer) error {
	if !viewer.Authenticated() || viewer.TokenID == "" {
		return domain.ErrUnauthorized
	}
	if err := s.sessions.Revoke(ctx, viewer.TokenID, viewer.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.events.Enqueue(domain.NewUserEvent(domain.EventUserLoggedOut, &domain.User{
		ID:    viewer.UserID,
		Email: viewer.Email,
		Role:  viewer.Role,
	}))
	return nil
}

func (s *AuthService) readAvatar(up ports.AvatarUpload) ([]byte, string, domain.FieldErrorKind) {
	if up.Content == nil {
		return nil, "", domain.KindRequired
	}
	if up.Size > s.cfg.MaxAvatarBytes {
		return nil, "", domain.KindTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(up.Content, s.cfg.MaxAvatarBytes+1))
	if err != nil || len(data) == 0 {
		return nil, "", domain.KindRequired
	}
	if int64(len(data)) > s.cfg.MaxAvatarBytes {
		return nil, "", domain.KindTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, "", domain.KindInvalidFormat
	}
	return data, mt.String(), ""
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

type fieldValue struct {
	field domain.FormField
	value string
}

// requireFields reports every empty field as required, or nil.
func requireFields(form domain.Form, fields ...fieldValue) *domain.ValidationError {
	var verr *domain.ValidationError
	for _, f := range fields {
		if strings.TrimSpace(f.value) != "" {
			continue
		}
		if verr == nil {
			verr = &domain.ValidationError{Form: form}
		}
		verr.Fields = append(verr.Fields, domain.NewFieldError(form, f.field, domain.KindRequired))
	}
	return verr
}

// checkAvailable appends an unavailable error for a username or email that
// belongs to an account other than selfID.
func checkAvailable(ctx context.Context, users ports.UserRepository, form domain.Form, username, email, selfID string, verr *domain.ValidationError) error {
	if username != "" {
		u, err := users.FindByUsername(ctx, username)
		switch {
		case err == nil && u.ID != selfID:
			verr.Fields = append(verr.Fields, domain.NewFieldError(form, domain.FieldUsername, domain.KindUnavailable))
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return err
		}
	}
	if email != "" {
		u, err := users.FindByEmail(ctx, email)
		switch {
		case err == nil && u.ID != selfID:
			verr.Fields = append(verr.Fields, domain.NewFieldError(form, domain.FieldEmail, domain.KindUnavailable))
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return err
		}
	}
	return nil
}
