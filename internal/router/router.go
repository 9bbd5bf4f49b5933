// Package router defines how HTTP routes are registered for the API. The
// split mirrors the guard each group carries: public routes have none,
// authenticated routes run JWTAuth, admin routes additionally run
// RequireRole("admin").
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moviehub/catalog/internal/handler"
	"github.com/moviehub/catalog/internal/middleware"
	"github.com/moviehub/catalog/internal/repository"
)

// RegisterPublic registers routes that require no authentication: the
// health check, registration, login and catalog browsing.
func RegisterPublic(e *echo.Echo, a *handler.AuthHandler, cat *handler.CatalogHandler) {
	e.GET("/healthz", handler.Health)

	e.POST("/register", a.Register)
	e.POST("/login", a.Login)

	e.GET("/categories", cat.ListCategories)
	e.GET("/movies", cat.ListMovies)
	e.GET("/movies/:id", cat.GetMovie)
}

// RegisterAuthenticated registers routes behind JWTAuth: the caller's
// identity, account mutation (identity match enforced in the handler),
// favorites and orders.
func RegisterAuthenticated(e *echo.Echo, a *handler.AuthHandler, f *handler.FavoriteHandler, o *handler.OrderHandler, jwtSecret string) {
	g := e.Group("", middleware.JWTAuth(jwtSecret))

	g.GET("/me", a.Me)
	g.PUT("/users/:id", a.UpdateUser)
	g.DELETE("/users/:id", a.DeleteUser)

	g.POST("/favorites", f.Add)
	g.DELETE("/favorites/:movieId", f.Remove)
	g.GET("/favorites", f.List)

	g.POST("/orders", o.Create)
	g.GET("/orders", o.List)
}

// RegisterAdmin registers admin-only routes behind JWTAuth plus the admin
// role gate: user management and catalog mutation.
func RegisterAdmin(e *echo.Echo, au *handler.AdminUserHandler, cat *handler.CatalogHandler, jwtSecret string) {
	g := e.Group(
		"/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleAdmin),
	)
	g.GET("/users", au.List)
	g.POST("/users", au.Create)
	g.PUT("/users/:id", au.Update)
	g.DELETE("/users/:id", au.Delete)

	m := e.Group(
		"",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleAdmin),
	)
	m.POST("/movies", cat.CreateMovie)
	m.PUT("/movies/:id", cat.UpdateMovie)
	m.DELETE("/movies/:id", cat.DeleteMovie)
}
