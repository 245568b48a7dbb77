// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Sohaib59/ecommerce-store/internal/config"
	"github.com/Sohaib59/ecommerce-store/internal/handler"
	"github.com/Sohaib59/ecommerce-store/internal/middleware"
	"github.com/Sohaib59/ecommerce-store/internal/repository"
)

// RegisterRoutes registers routes that require no authentication.
// Currently only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential-lifecycle endpoints. Register
// and login are unauthenticated and rate-limited; logout,
// change-password and me require a live token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *repository.TokenRepo, rl config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth")
	g.Use(middleware.RateLimit(rl, rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1/auth")
	auth.Use(middleware.TokenAuth(tokens))
	auth.POST("/logout", a.Logout)
	auth.POST("/change-password", a.ChangePassword)
	auth.GET("/me", a.Me)
}

// RegisterUsers registers the user management endpoints. Every route
// requires a token; per-operation access comes from the policy table.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, tokens *repository.TokenRepo) {
	g := e.Group("/v1/users")
	g.Use(middleware.TokenAuth(tokens))
	g.GET("", u.List, middleware.RequireOperation("users.list"))
	g.POST("", u.Create, middleware.RequireOperation("users.create"))
	g.GET("/:id", u.Get, middleware.RequireOperation("users.get"))
	g.PUT("/:id", u.Update, middleware.RequireOperation("users.update"))
	g.DELETE("/:id", u.Delete, middleware.RequireOperation("users.delete"))
	g.POST("/:id/activate", u.Activate, middleware.RequireOperation("users.activate"))
	g.POST("/:id/deactivate", u.Deactivate, middleware.RequireOperation("users.deactivate"))
}

// RegisterProfiles registers the profile endpoints. Ownership of a
// specific profile is only known after loading it, so get/update are
// checked inside the handler against the same policy table.
func RegisterProfiles(e *echo.Echo, p *handler.ProfileHandler, tokens *repository.TokenRepo) {
	g := e.Group("/v1/profiles")
	g.Use(middleware.TokenAuth(tokens))
	g.GET("", p.List, middleware.RequireOperation("profiles.list"))
	g.POST("", p.Create, middleware.RequireOperation("profiles.create"))
	g.GET("/me", p.Me)
	g.GET("/:id", p.Get)
	g.PUT("/:id", p.Update)
	g.DELETE("/:id", p.Delete, middleware.RequireOperation("profiles.delete"))
}

// RegisterCatalog registers the catalog endpoints. Reads are public and
// response-cached; writes require an admin token.
func RegisterCatalog(e *echo.Echo,
	b *handler.BrandHandler, cat *handler.CategoryHandler,
	pr *handler.ProductHandler, img *handler.ImageHandler,
	tokens *repository.TokenRepo, cc config.CacheConfig, rdb *redis.Client) {

	pub := e.Group("/v1")
	pub.Use(middleware.ResponseCache(cc, rdb))
	pub.GET("/brands", b.List)
	pub.GET("/brands/:id", b.Get)
	pub.GET("/categories", cat.List)
	pub.GET("/categories/:id", cat.Get)
	pub.GET("/categories/:id/children", cat.Children)
	pub.GET("/products", pr.List)
	pub.GET("/products/:id", pr.Get)
	pub.GET("/products/slug/:slug", pr.GetBySlug)
	pub.GET("/products/:id/images", img.ListByProduct)

	adm := e.Group("/v1")
	adm.Use(middleware.TokenAuth(tokens))
	adm.POST("/brands", b.Create, middleware.RequireOperation("brands.write"))
	adm.PUT("/brands/:id", b.Update, middleware.RequireOperation("brands.write"))
	adm.DELETE("/brands/:id", b.Delete, middleware.RequireOperation("brands.write"))

	adm.POST("/categories", cat.Create, middleware.RequireOperation("categories.write"))
	adm.PUT("/categories/:id", cat.Update, middleware.RequireOperation("categories.write"))
	adm.DELETE("/categories/:id", cat.Delete, middleware.RequireOperation("categories.write"))

	adm.POST("/products", pr.Create, middleware.RequireOperation("products.write"))
	adm.PUT("/products/:id", pr.Update, middleware.RequireOperation("products.write"))
	adm.DELETE("/products/:id", pr.Delete, middleware.RequireOperation("products.write"))

	adm.POST("/products/:id/images", img.Create, middleware.RequireOperation("images.write"))
	adm.PUT("/images/:id", img.Update, middleware.RequireOperation("images.write"))
	adm.DELETE("/images/:id", img.Delete, middleware.RequireOperation("images.write"))
}
