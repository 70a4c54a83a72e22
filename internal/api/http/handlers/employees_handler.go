package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dulieucongty68/pmql-be/internal/api/dto"
	"github.com/dulieucongty68/pmql-be/internal/service"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

// EmployeesHandler exposes employee management endpoints.
type EmployeesHandler struct {
	employees *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees}
}

// Create handles POST /employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.employees.Create(c.UserContext(), principal.User, principal.Role, service.EmployeeCreateInput{
		Username: req.Username,
		Name:     req.Name,
		RoleCode: req.Role,
		Status:   req.Status,
		TeamID:   req.TeamID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(employeeSummary(user))
}

// List handles GET /employees. Admin accounts never appear in the listing.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	page, pageSize := pageQuery(c)
	rows, total, err := h.employees.List(c.UserContext(), principal.Role, service.EmployeeListInput{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return err
	}

	response := dto.EmployeeListResponse{
		Employees: make([]dto.EmployeeSummary, 0, len(rows)),
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}
	for _, row := range rows {
		response.Employees = append(response.Employees, employeeRowSummary(row))
	}
	return c.JSON(response)
}

// Update handles PUT /employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.employees.Update(c.UserContext(), principal.User, principal.Role, id, service.EmployeeUpdateInput{
		Name:         req.Name,
		Username:     req.Username,
		Password:     req.Password,
		TeamID:       req.TeamID,
		Status:       req.Status,
		IsFirstLogin: req.IsFirstLogin,
	}); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "employee updated"})
}

// ResetPassword handles POST /employees/:id/reset-password. The password is
// reset to the employee's username and a change is forced at next login.
func (h *EmployeesHandler) ResetPassword(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.employees.ResetPassword(c.UserContext(), principal.Role, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "password reset"})
}
