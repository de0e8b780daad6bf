package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/domain"
)

const viewerKey = "viewer"

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Auth validates the bearer JWT, rejects revoked sessions and injects the
// viewer into the context.
func Auth(jwtSecret string, sessions RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			viewer, err := authenticate(c.Request().Context(), authHeader, jwtSecret, sessions)
			if err != nil {
				return err
			}

			SetViewer(c, viewer)
			return next(c)
		}
	}
}

// OptionalAuth injects the viewer when a valid token is present and treats
// every other request as anonymous.
func OptionalAuth(jwtSecret string, sessions RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader != "" {
				if viewer, err := authenticate(c.Request().Context(), authHeader, jwtSecret, sessions); err == nil {
					SetViewer(c, viewer)
				}
			}
			return next(c)
		}
	}
}

// ViewerFrom returns the viewer set by Auth or OptionalAuth, or the
// anonymous viewer.
func ViewerFrom(c echo.Context) domain.Viewer {
	v, _ := c.Get(viewerKey).(domain.Viewer)
	return v
}

// SetViewer stores v as the request's viewer.
func SetViewer(c echo.Context, v domain.Viewer) {
	c.Set(viewerKey, v)
	c.Set("user_id", v.UserID)
	c.Set("role", v.Role)
}

func authenticate(ctx context.Context, authHeader, jwtSecret string, sessions RevocationChecker) (domain.Viewer, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return domain.Viewer{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.Viewer{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	viewer := domain.Viewer{
		Username: stringClaim(claims, "username"),
		Email:    stringClaim(claims, "email"),
		Role:     stringClaim(claims, "role"),
		TokenID:  stringClaim(claims, "jti"),
	}
	viewer.UserID, _ = claims.GetSubject()
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		viewer.ExpiresAt = exp.Time
	}
	if viewer.UserID == "" || viewer.Role == "" {
		return domain.Viewer{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	if viewer.TokenID != "" && sessions != nil {
		revoked, err := sessions.IsRevoked(ctx, viewer.TokenID)
		if err != nil {
			return domain.Viewer{}, fmt.Errorf("check session: %w", err)
		}
		if revoked {
			return domain.Viewer{}, echo.NewHTTPError(http.StatusUnauthorized, "session has ended")
		}
	}

	return viewer, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
