package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/ports"
)

type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Products lists the catalog.
//
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  productsResponse
// @Router       /v1/products [get]
func (h *CatalogHandler) Products(c echo.Context) error {
	products, err := h.catalog.Products(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productsResponse{Products: products})
}

// Product returns one product.
//
// @Summary      Get product
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  errorResponse
// @Router       /v1/products/{id} [get]
func (h *CatalogHandler) Product(c echo.Context) error {
	p, err := h.catalog.Product(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Categories lists every category.
//
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  categoriesResponse
// @Router       /v1/categories [get]
func (h *CatalogHandler) Categories(c echo.Context) error {
	categories, err := h.catalog.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoriesResponse{Categories: categories})
}

// CategoryProducts lists the products of a category.
//
// @Summary      List category products
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  productsResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/categories/{id}/products [get]
func (h *CatalogHandler) CategoryProducts(c echo.Context) error {
	products, err := h.catalog.CategoryProducts(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productsResponse{Products: products})
}

// CreateProduct adds a product to the catalog.
//
// @Summary      Create product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  domain.Product
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  validationErrorResponse
// @Router       /v1/products [post]
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.catalog.CreateProduct(c.Request().Context(), toProductInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdateProduct changes a product.
//
// @Summary      Update product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Product ID"
// @Param        body  body      productPatchRequest  true  "Fields to change"
// @Success      200   {object}  domain.Product
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  validationErrorResponse
// @Router       /v1/products/{id} [patch]
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	var req productPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.catalog.UpdateProduct(c.Request().Context(), c.Param("id"), toProductPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
