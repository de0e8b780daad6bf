package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/ports"
)

type NavigationHandler struct {
	nav ports.NavigationService
}

func NewNavigationHandler(nav ports.NavigationService) *NavigationHandler {
	return &NavigationHandler{nav: nav}
}

// Get returns the navigation bar for the caller. A missing or invalid token
// yields the guest view.
//
// @Summary      Navigation bar
// @Tags         navigation
// @Produce      json
// @Param        Authorization  header    string  false  "Bearer token"
// @Success      200            {object}  domain.Navigation
// @Router       /v1/navigation [get]
func (h *NavigationHandler) Get(c echo.Context) error {
	nav, err := h.nav.Build(c.Request().Context(), viewer(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nav)
}
