package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type authFixture struct {
	users    *stubUserRepo
	avatars  *stubAvatarStore
	sessions *stubSessionStore
	events   *recordingSink
	svc      *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    newStubUserRepo(),
		avatars:  newStubAvatarStore(),
		sessions: newStubSessionStore(),
		events:   &recordingSink{},
	}
	f.svc = NewAuthService(f.users, f.avatars, f.sessions, f.events,
		AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour, MaxAvatarBytes: 1024},
		zerolog.Nop())
	return f
}

func pngUpload() ports.AvatarUpload {
	return ports.AvatarUpload{Filename: "me.png", Size: int64(len(pngHeader)), Content: bytes.NewReader(pngHeader)}
}

func registerInput(username, email string) ports.RegisterInput {
	return ports.RegisterInput{Username: username, Email: email, Password: "pass123", Avatar: pngUpload()}
}

func validationError(t *testing.T, err error) *domain.ValidationError {
	t.Helper()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ValidationError, got %v", err)
	}
	return verr
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.Register(context.Background(), registerInput("alice", "alice@example.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleCustomer {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.Avatar != domain.AvatarPath("avatar1") {
		t.Fatalf("unexpected avatar path: %s", user.Avatar)
	}
	if f.avatars.types["avatar1"] != "image/png" {
		t.Fatalf("expected sniffed image/png, got %q", f.avatars.types["avatar1"])
	}
	if got := f.events.types(); len(got) != 1 || got[0] != domain.EventUserRegistered {
		t.Fatalf("unexpected events: %v", got)
	}
}

func TestAuthService_Register_RequiredFields(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{Avatar: pngUpload()})
	verr := validationError(t, err)
	for _, field := range []domain.FormField{domain.FieldUsername, domain.FieldEmail, domain.FieldPassword} {
		if !verr.Has(field, domain.KindRequired) {
			t.Fatalf("expected %s required, got %+v", field, verr.Fields)
		}
	}
}

func TestAuthService_Register_Conflicts(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Register(context.Background(), registerInput("bob", "bob@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := f.svc.Register(context.Background(), registerInput("bob", "other@example.com"))
	if verr := validationError(t, err); !verr.Has(domain.FieldUsername, domain.KindUnavailable) {
		t.Fatalf("expected username unavailable, got %+v", verr.Fields)
	}

	_, err = f.svc.Register(context.Background(), registerInput("robert", "bob@example.com"))
	verr := validationError(t, err)
	if !verr.Has(domain.FieldEmail, domain.KindUnavailable) {
		t.Fatalf("expected email unavailable, got %+v", verr.Fields)
	}
	if verr.Fields[0].Message != "Email is not available" {
		t.Fatalf("unexpected message: %q", verr.Fields[0].Message)
	}
	if len(f.avatars.saved) != 1 {
		t.Fatalf("rejected registrations must not store avatars, stored %d", len(f.avatars.saved))
	}
}

func TestAuthService_Register_AvatarChecks(t *testing.T) {
	cases := []struct {
		name   string
		upload ports.AvatarUpload
		kind   domain.FieldErrorKind
	}{
		{"missing", ports.AvatarUpload{}, domain.KindRequired},
		{"not an image", ports.AvatarUpload{Filename: "a.txt", Size: 5, Content: strings.NewReader("hello")}, domain.KindInvalidFormat},
		{"declared too large", ports.AvatarUpload{Filename: "a.png", Size: 4096, Content: bytes.NewReader(pngHeader)}, domain.KindTooLarge},
		{"body too large", ports.AvatarUpload{Filename: "a.png", Content: bytes.NewReader(append(pngHeader, make([]byte, 2048)...))}, domain.KindTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAuthFixture()
			in := registerInput("carol", "carol@example.com")
			in.Avatar = tc.upload

			_, err := f.svc.Register(context.Background(), in)
			if verr := validationError(t, err); !verr.Has(domain.FieldAvatarFile, tc.kind) {
				t.Fatalf("expected file %s, got %+v", tc.kind, verr.Fields)
			}
		})
	}
}

func TestAuthService_Register_LookupFailure(t *testing.T) {
	f := newAuthFixture()
	f.users.findErr = errors.New("mongo down")

	_, err := f.svc.Register(context.Background(), registerInput("dan", "dan@example.com"))
	if err == nil {
		t.Fatalf("expected error")
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		t.Fatalf("store failures must not be reported as field errors")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Register(context.Background(), registerInput("carol", "carol@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "carol@example.com", Password: "pass123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User == nil || res.User.Username != "carol" {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(res.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleCustomer {
		t.Fatalf("expected role %s, got %v", domain.RoleCustomer, claims["role"])
	}
	if claims["jti"] == "" || claims["jti"] == nil {
		t.Fatalf("expected token id")
	}

	got := f.events.types()
	if got[len(got)-1] != domain.EventUserLoggedIn {
		t.Fatalf("expected login event, got %v", got)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture()
	_, _ = f.svc.Register(context.Background(), registerInput("dave", "dave@example.com"))

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "dave@example.com", Password: "badpass"})
	verr := validationError(t, err)
	if !verr.Has(domain.FieldPassword, domain.KindWrongPassword) {
		t.Fatalf("expected password error, got %+v", verr.Fields)
	}
	if verr.Fields[0].Message != "*Password Didn't match" {
		t.Fatalf("unexpected message: %q", verr.Fields[0].Message)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "ghost@example.com", Password: "pass"})
	if verr := validationError(t, err); !verr.Has(domain.FieldEmail, domain.KindNotFound) {
		t.Fatalf("expected email not found, got %+v", verr.Fields)
	}
}

func TestAuthService_Login_RequiredFields(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "  "})
	verr := validationError(t, err)
	if !verr.Has(domain.FieldEmail, domain.KindRequired) || !verr.Has(domain.FieldPassword, domain.KindRequired) {
		t.Fatalf("expected both fields required, got %+v", verr.Fields)
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	exp := time.Now().Add(time.Hour)
	viewer := domain.Viewer{UserID: "u1", Email: "x@example.com", Role: domain.RoleCustomer, TokenID: "jti-1", ExpiresAt: exp}

	if err := f.svc.Logout(context.Background(), viewer); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if until, ok := f.sessions.revoked["jti-1"]; !ok || !until.Equal(exp) {
		t.Fatalf("expected token revoked until %v, got %v", exp, until)
	}
	if got := f.events.types(); len(got) != 1 || got[0] != domain.EventUserLoggedOut {
		t.Fatalf("unexpected events: %v", got)
	}

	if err := f.svc.Logout(context.Background(), domain.Viewer{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for anonymous viewer, got %v", err)
	}
}
