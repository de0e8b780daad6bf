package handler

import "github.com/storefront/storefront-api/internal/core/domain"

type productRequest struct {
	Title       string   `json:"title"       validate:"required"`
	Price       float64  `json:"price"       validate:"required,gt=0"`
	Description string   `json:"description"`
	CategoryID  string   `json:"category_id" validate:"required"`
	Images      []string `json:"images"`
}

func (productRequest) form() domain.Form { return domain.FormProduct }

type productPatchRequest struct {
	Title       *string  `json:"title"       validate:"omitempty,min=1"`
	Price       *float64 `json:"price"       validate:"omitempty,gt=0"`
	Description *string  `json:"description"`
	CategoryID  *string  `json:"category_id" validate:"omitempty,min=1"`
	Images      []string `json:"images"`
}

func (productPatchRequest) form() domain.Form { return domain.FormProduct }

type productsResponse struct {
	Products []domain.Product `json:"products"`
}

type categoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

type searchResponse struct {
	Mode    domain.SearchMode    `json:"mode"`
	Query   string               `json:"query"`
	Entries []domain.SearchEntry `json:"entries"`
}

type cartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity"   validate:"gte=1"`
}

func (cartItemRequest) form() domain.Form { return domain.FormCartItem }

type cartResponse struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
}
