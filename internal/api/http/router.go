package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dulieucongty68/pmql-be/internal/api/http/handlers"
	"github.com/dulieucongty68/pmql-be/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Customers      *handlers.CustomersHandler
	Employees      *handlers.EmployeesHandler
	Teams          *handlers.TeamsHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	authed := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authed.Post("/auth/logout", cfg.Auth.Logout)
	authed.Post("/auth/update-password", cfg.Auth.UpdatePassword)

	customers := authed.Group("/customers")
	customers.Get("", cfg.Customers.List)
	customers.Post("", cfg.Customers.Create)
	customers.Get("/export", auth.RequireAdmin(), cfg.Customers.Export)
	customers.Put("/:id", cfg.Customers.Update)
	customers.Delete("/:id", cfg.Customers.Delete)

	employees := authed.Group("/employees")
	employees.Get("", cfg.Employees.List)
	employees.Post("", auth.RequireAdmin(), cfg.Employees.Create)
	employees.Put("/:id", cfg.Employees.Update)
	employees.Post("/:id/reset-password", auth.RequirePrivileged(), cfg.Employees.ResetPassword)

	teams := authed.Group("/teams")
	teams.Get("", cfg.Teams.List)
	teams.Post("", auth.RequirePrivileged(), cfg.Teams.Create)
	teams.Put("/:id", auth.RequirePrivileged(), cfg.Teams.Update)

	authed.Get("/statistics/calls", cfg.Stats.CallStats)
}
