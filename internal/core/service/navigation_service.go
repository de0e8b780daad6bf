package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type cartCounter interface {
	Count(ctx context.Context, userID string) (int, error)
}

// NavigationService assembles the navigation bar. A failing cart or profile
// lookup degrades the bar instead of failing it.
type NavigationService struct {
	users ports.UserRepository
	carts cartCounter
	log   zerolog.Logger
}

func NewNavigationService(users ports.UserRepository, carts cartCounter, log zerolog.Logger) *NavigationService {
	return &NavigationService{users: users, carts: carts, log: log}
}

func (s *NavigationService) Build(ctx context.Context, viewer domain.Viewer) (*domain.Navigation, error) {
	nav := &domain.Navigation{
		Links:       domain.NavigationLinks(),
		SearchModes: append([]domain.SearchMode(nil), domain.SearchModes...),
		Cart:        domain.NewCartBadge(0),
		Menu:        domain.Menu(viewer.Authenticated(), viewer.Role),
	}
	if !viewer.Authenticated() {
		return nav, nil
	}

	count, err := s.carts.Count(ctx, viewer.UserID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", viewer.UserID).Msg("cart count unavailable")
	} else {
		nav.Cart = domain.NewCartBadge(count)
	}

	user, err := s.users.FindByID(ctx, viewer.UserID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", viewer.UserID).Msg("profile unavailable for navigation")
	} else {
		nav.User = user
	}

	return nav, nil
}
