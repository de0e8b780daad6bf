package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a customer account from the multipart registration form.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        username        formData  string  true  "Username"
// @Param        email           formData  string  true  "Email"
// @Param        password        formData  string  true  "Password (min 6)"
// @Param        retry_password  formData  string  true  "Password confirmation"
// @Param        file            formData  file    true  "Avatar image"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  validationErrorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	verr := &domain.ValidationError{Form: domain.FormRegistration}
	if err := c.Validate(&req); err != nil {
		if !errors.As(err, &verr) {
			return err
		}
	}

	fh, err := c.FormFile(string(domain.FieldAvatarFile))
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if fh == nil {
		verr.Fields = append(verr.Fields, domain.NewFieldError(domain.FormRegistration, domain.FieldAvatarFile, domain.KindRequired))
	}
	if len(verr.Fields) > 0 {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return verr
	}

	file, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	defer file.Close()

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Avatar: ports.AvatarUpload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Content:  file,
		},
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(outcome(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, registerResponse{User: user, Redirect: loginRoute, Message: msgRegistered})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  validationErrorResponse
// @Failure      429   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(outcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:    res.Token,
		User:     res.User,
		Redirect: homeRoute,
		Message:  msgLoggedIn,
	})
}

// Logout ends the current session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  redirectResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), viewer(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, redirectResponse{Redirect: homeRoute})
}

// outcome labels a failed auth attempt for metrics.
func outcome(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return "rejected"
	case errors.Is(err, domain.ErrUserExists):
		return "conflict"
	default:
		return "error"
	}
}
