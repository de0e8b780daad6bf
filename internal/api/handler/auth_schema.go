package handler

import "github.com/storefront/storefront-api/internal/core/domain"

// errorResponse is the standard error envelope returned on 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// validationErrorResponse carries field-level errors shown next to inputs.
type validationErrorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (loginRequest) form() domain.Form { return domain.FormLogin }

// registerRequest is the multipart registration form. The avatar arrives
// as the "file" part and is read separately.
type registerRequest struct {
	Username      string `form:"username"       validate:"required"`
	Email         string `form:"email"          validate:"required,email_address"`
	Password      string `form:"password"       validate:"required,min=6"`
	RetryPassword string `form:"retry_password" validate:"required,eqfield=Password"`
}

func (registerRequest) form() domain.Form { return domain.FormRegistration }

type loginResponse struct {
	Token    string       `json:"token"`
	User     *domain.User `json:"user"`
	Redirect string       `json:"redirect"`
	Message  string       `json:"message"`
}

type registerResponse struct {
	User     *domain.User `json:"user"`
	Redirect string       `json:"redirect"`
	Message  string       `json:"message"`
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

const (
	homeRoute  = "/"
	loginRoute = "/login"

	msgLoggedIn   = "User Logged In Successfully"
	msgRegistered = "Registration Successful"
)
