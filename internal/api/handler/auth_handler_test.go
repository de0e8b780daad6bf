package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
	logoutFn   func(ctx context.Context, viewer domain.Viewer) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Logout(ctx context.Context, viewer domain.Viewer) error {
	return s.logoutFn(ctx, viewer)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func asValidationError(t *testing.T, err error) *domain.ValidationError {
	t.Helper()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ValidationError, got %v", err)
	}
	return verr
}

// multipartBody builds a registration form. A nil avatar omits the file part.
func multipartBody(t *testing.T, fields map[string]string, avatar []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if avatar != nil {
		part, err := w.CreateFormFile("file", "me.png")
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		_, _ = part.Write(avatar)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func validRegistration() map[string]string {
	return map[string]string{
		"username":       "alice",
		"email":          "alice@example.com",
		"password":       "abc123",
		"retry_password": "abc123",
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "alice" || in.Email != "alice@example.com" || in.Password != "abc123" {
				t.Fatalf("unexpected input: %+v", in)
			}
			data, _ := io.ReadAll(in.Avatar.Content)
			if string(data) != "PNGDATA" || in.Avatar.Filename != "me.png" {
				t.Fatalf("unexpected avatar: %q %s", data, in.Avatar.Filename)
			}
			return &domain.User{ID: "u1", Username: in.Username, Role: domain.RoleCustomer, Avatar: "/v1/avatars/a1"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body, ct := multipartBody(t, validRegistration(), []byte("PNGDATA"))
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["redirect"] != "/login" || resp["message"] != "Registration Successful" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" || user["avatar"] != "/v1/avatars/a1" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["PasswordHash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
}

func TestAuthHandler_Register_PasswordMismatchBlocksSubmission(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	fields := validRegistration()
	fields["retry_password"] = "abc124"
	body, ct := multipartBody(t, fields, []byte("PNGDATA"))
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", body)
	req.Header.Set(echo.HeaderContentType, ct)
	c := e.NewContext(req, httptest.NewRecorder())

	verr := asValidationError(t, handler.Register(c))
	if !verr.Has(domain.FieldRetryPassword, domain.KindMismatch) {
		t.Fatalf("expected retry_password mismatch, got %+v", verr.Fields)
	}
	if verr.Fields[0].Message != "Password do not match" {
		t.Fatalf("unexpected message: %q", verr.Fields[0].Message)
	}
}

func TestAuthHandler_Register_SchemaErrors(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	body, ct := multipartBody(t, map[string]string{
		"email":          "not-an-email",
		"password":       "abc",
		"retry_password": "abc",
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", body)
	req.Header.Set(echo.HeaderContentType, ct)
	c := e.NewContext(req, httptest.NewRecorder())

	verr := asValidationError(t, handler.Register(c))
	checks := []struct {
		field domain.FormField
		kind  domain.FieldErrorKind
		msg   string
	}{
		{domain.FieldUsername, domain.KindRequired, "UserName is required"},
		{domain.FieldEmail, domain.KindInvalidFormat, "Invalid email address"},
		{domain.FieldPassword, domain.KindTooShort, "Password must be at least 6 characters long"},
		{domain.FieldAvatarFile, domain.KindRequired, "Avatar image is required"},
	}
	for _, ch := range checks {
		found := false
		for _, f := range verr.Fields {
			if f.Field == ch.field && f.Kind == ch.kind && f.Message == ch.msg {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected %s/%s %q in %+v", ch.field, ch.kind, ch.msg, verr.Fields)
		}
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	body, ct := multipartBody(t, validRegistration(), []byte("PNGDATA"))
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", body)
	req.Header.Set(echo.HeaderContentType, ct)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			if in.Email != "alice@example.com" || in.Password != "secret" {
				t.Fatalf("unexpected args: %+v", in)
			}
			return &ports.LoginResult{Token: "token123", User: &domain.User{Username: "alice", Role: "admin"}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"secret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["redirect"] != "/" || resp["message"] != "User Logged In Successfully" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" || user["role"] != "admin" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			return nil, domain.NewValidationError(domain.FormLogin, domain.FieldPassword, domain.KindWrongPassword)
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{"email":"a@b.com","password":"wrong"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	verr := asValidationError(t, handler.Login(c))
	if !verr.Has(domain.FieldPassword, domain.KindWrongPassword) {
		t.Fatalf("expected password error, got %+v", verr.Fields)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("no token may be written on failure, got %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_RequiredFields(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	verr := asValidationError(t, handler.Login(c))
	if !verr.Has(domain.FieldEmail, domain.KindRequired) || !verr.Has(domain.FieldPassword, domain.KindRequired) {
		t.Fatalf("expected both required, got %+v", verr.Fields)
	}
	for _, f := range verr.Fields {
		if f.Field == domain.FieldEmail && f.Message != "*Email is required." {
			t.Fatalf("unexpected email message: %q", f.Message)
		}
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var he *echo.HTTPError
	if err := handler.Login(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	var got domain.Viewer
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, viewer domain.Viewer) error {
			got = viewer
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	v := domain.Viewer{UserID: "u1", Role: domain.RoleCustomer, TokenID: "jti", ExpiresAt: time.Now().Add(time.Hour)}
	middleware.SetViewer(c, v)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != v {
		t.Fatalf("viewer not passed through: %+v", got)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"redirect":"/"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}
