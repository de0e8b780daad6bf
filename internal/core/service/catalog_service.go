package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const defaultCatalogTTL = 5 * time.Minute

// CatalogService serves products and categories from in-memory snapshots
// of the repository. Categories are loaded the first time they are needed.
type CatalogService struct {
	repo       ports.CatalogRepository
	products   *snapshot[domain.Product]
	categories *snapshot[domain.Category]
	log        zerolog.Logger
}

func NewCatalogService(repo ports.CatalogRepository, ttl time.Duration, log zerolog.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CatalogService{
		repo:       repo,
		products:   newSnapshot("products", ttl, repo.ListProducts),
		categories: newSnapshot("categories", ttl, repo.ListCategories),
		log:        log,
	}
}

func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) Product(ctx context.Context, id string) (*domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return categories, nil
}

// CategoryProducts lists the products of one category in catalog order.
func (s *CatalogService) CategoryProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for _, c := range categories {
		if c.ID == categoryID {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrCategoryNotFound
	}

	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	p := &domain.Product{
		Title:       strings.TrimSpace(in.Title),
		Price:       in.Price,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Images:      in.Images,
	}
	if err := s.validateProduct(ctx, p); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.products.invalidate()

	s.log.Info().Str("product_id", created.ID).Msg("product created")
	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ports.ProductPatch) (*domain.Product, error) {
	p, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if err := s.validateProduct(ctx, p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.UpdateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.products.invalidate()

	s.log.Info().Str("product_id", updated.ID).Msg("product updated")
	return updated, nil
}

// Search filters the collection selected by mode by display name.
func (s *CatalogService) Search(ctx context.Context, mode domain.SearchMode, query string) ([]domain.SearchEntry, error) {
	switch mode {
	case domain.SearchProduct:
		products, err := s.Products(ctx)
		if err != nil {
			return nil, err
		}
		matched := FilterByName(products, query, func(p domain.Product) string { return p.Title })
		entries := make([]domain.SearchEntry, 0, len(matched))
		for _, p := range matched {
			entries = append(entries, domain.SearchEntry{ID: p.ID, Name: p.Title, Route: domain.ProductRoute(p.ID)})
		}
		return entries, nil

	case domain.SearchCategory:
		categories, err := s.Categories(ctx)
		if err != nil {
			return nil, err
		}
		matched := FilterByName(categories, query, func(c domain.Category) string { return c.Name })
		entries := make([]domain.SearchEntry, 0, len(matched))
		for _, c := range matched {
			entries = append(entries, domain.SearchEntry{ID: c.ID, Name: c.Name, Route: domain.CategoryRoute(c.ID)})
		}
		return entries, nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSearchMode, mode)
	}
}

func (s *CatalogService) validateProduct(ctx context.Context, p *domain.Product) error {
	verr := &domain.ValidationError{Form: domain.FormProduct}
	if p.Title == "" {
		verr.Fields = append(verr.Fields, domain.NewFieldError(domain.FormProduct, domain.FieldTitle, domain.KindRequired))
	}
	if p.Price <= 0 {
		verr.Fields = append(verr.Fields, domain.NewFieldError(domain.FormProduct, domain.FieldPrice, domain.KindOutOfRange))
	}
	switch {
	case p.CategoryID == "":
		verr.Fields = append(verr.Fields, domain.NewFieldError(domain.FormProduct, domain.FieldCategoryID, domain.KindRequired))
	default:
		_, err := s.repo.FindCategory(ctx, p.CategoryID)
		if errors.Is(err, domain.ErrCategoryNotFound) {
			verr.Fields = append(verr.Fields, domain.NewFieldError(domain.FormProduct, domain.FieldCategoryID, domain.KindNotFound))
		} else if err != nil {
			return fmt.Errorf("find category: %w", err)
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
