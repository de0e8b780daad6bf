package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/domain"
)

func viewer(c echo.Context) domain.Viewer {
	return middleware.ViewerFrom(c)
}

// requireViewer fails fast when the Auth middleware did not run or let an
// anonymous request through.
func requireViewer(c echo.Context) (domain.Viewer, error) {
	v := middleware.ViewerFrom(c)
	if !v.Authenticated() {
		return domain.Viewer{}, domain.ErrUnauthorized
	}
	return v, nil
}
