package handler

import (
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

func toProductInput(req productRequest) ports.ProductInput {
	return ports.ProductInput{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
	}
}

func toProductPatch(req productPatchRequest) ports.ProductPatch {
	return ports.ProductPatch{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
	}
}

func toCartResponse(cart *domain.Cart) cartResponse {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartResponse{Items: items, Count: cart.Count()}
}
