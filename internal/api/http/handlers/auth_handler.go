package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dulieucongty68/pmql-be/internal/api/dto"
	"github.com/dulieucongty68/pmql-be/internal/service"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

// AuthHandler exposes login, logout and password change endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      employeeSummary(user),
	})
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only
// acknowledges; clients discard the token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), ""); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "logged out"})
}

// UpdatePassword handles POST /auth/update-password.
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current_password and new_password required", nil)
	}

	if err := h.auth.ChangePassword(c.UserContext(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "password updated"})
}
