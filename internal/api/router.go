package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/storefront/storefront-api/docs"
	"github.com/storefront/storefront-api/internal/api/handler"
	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
	"github.com/storefront/storefront-api/internal/infrastructure/http/handlers"
)

const defaultAuthRateLimit = 20

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Catalog    ports.CatalogService
	Cart       ports.CartService
	Navigation ports.NavigationService
	Sessions   middleware.RevocationChecker

	// Readiness lists the dependencies probed by /health/ready.
	Readiness map[string]handlers.Checker

	JWTSecret      string
	SearchDebounce time.Duration
	// AuthRateLimit is requests per second per client IP on /v1/auth.
	AuthRateLimit float64

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	// RequestLogger renders handler errors, so the metrics middleware wrapping
	// it records the status the client received.
	e.Use(echoprometheus.NewMiddleware("storefront"))
	e.Use(middleware.RequestLogger(d.Log))

	authRequired := middleware.Auth(d.JWTSecret, d.Sessions)
	authOptional := middleware.OptionalAuth(d.JWTSecret, d.Sessions)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	catalogHandler := handler.NewCatalogHandler(d.Catalog)
	cartHandler := handler.NewCartHandler(d.Cart)
	searchHandler := handler.NewSearchHandler(d.Catalog, d.SearchDebounce, d.Log)
	navHandler := handler.NewNavigationHandler(d.Navigation)

	v1 := e.Group("/v1")

	limit := d.AuthRateLimit
	if limit <= 0 {
		limit = defaultAuthRateLimit
	}
	auth := v1.Group("/auth")
	auth.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStore(rate.Limit(limit))))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authRequired)

	v1.GET("/users", userHandler.List, authRequired, adminOnly)
	v1.GET("/users/me", userHandler.Me, authRequired)
	v1.PATCH("/users/:id", userHandler.Update, authRequired)
	v1.GET("/avatars/:id", userHandler.Avatar)

	v1.GET("/products", catalogHandler.Products)
	v1.GET("/products/:id", catalogHandler.Product)
	v1.POST("/products", catalogHandler.CreateProduct, authRequired, adminOnly)
	v1.PATCH("/products/:id", catalogHandler.UpdateProduct, authRequired, adminOnly)
	v1.GET("/categories", catalogHandler.Categories)
	v1.GET("/categories/:id/products", catalogHandler.CategoryProducts)

	cart := v1.Group("/cart", authRequired)
	cart.GET("", cartHandler.Get)
	cart.POST("/items", cartHandler.Add)
	cart.DELETE("/items/:product_id", cartHandler.Remove)

	v1.GET("/search", searchHandler.Search)
	v1.GET("/search/live", searchHandler.Live)
	v1.GET("/navigation", navHandler.Get, authOptional)

	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Readiness).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
