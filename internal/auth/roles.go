package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dulieucongty68/pmql-be/internal/domain"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

// RequireAuthenticated ensures a caller is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller resolved to the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Role.Kind != domain.RoleKindAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}

// RequirePrivileged ensures the caller is an admin or a team lead.
func RequirePrivileged() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.Role.Privileged() {
			return apperrors.NewForbidden("admin or team lead role required")
		}
		return c.Next()
	}
}
