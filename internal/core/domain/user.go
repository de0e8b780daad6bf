package domain

import (
	"regexp"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// emailPattern is the address shape accepted by registration and profile updates.
var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// ValidEmail reports whether s looks like a deliverable email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// AvatarPath is the URL path an uploaded avatar is served from.
func AvatarPath(id string) string {
	return "/v1/avatars/" + id
}

// ValidRole reports whether role is one the storefront knows about.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}

// User models a storefront account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Viewer is the identity behind a request, taken from a verified token.
// The zero Viewer is an anonymous visitor.
type Viewer struct {
	UserID    string
	Username  string
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// Authenticated reports whether the viewer carries a verified identity.
func (v Viewer) Authenticated() bool {
	return v.UserID != ""
}
