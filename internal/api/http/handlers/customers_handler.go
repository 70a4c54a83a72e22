package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dulieucongty68/pmql-be/internal/api/dto"
	"github.com/dulieucongty68/pmql-be/internal/domain"
	"github.com/dulieucongty68/pmql-be/internal/service"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

// CustomersHandler exposes customer CRUD and export endpoints.
type CustomersHandler struct {
	customers *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customers *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{customers: customers}
}

// Create handles POST /customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	customer, err := h.customers.Create(c.UserContext(), principal.User, principal.Role, service.CustomerCreateInput{
		FullName:    req.FullName,
		YearOfBirth: req.YearOfBirth,
		PhoneNumber: req.PhoneNumber,
		Note:        req.Note,
		RoleNote:    req.RoleNote,
		Status:      req.Status,
		TeamID:      req.TeamID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(customerResponse(customer))
}

// List handles GET /customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	page, pageSize := pageQuery(c)
	input := service.CustomerListInput{Page: page, PageSize: pageSize}
	if search := c.Query("search"); search != "" {
		input.Search = &search
	}

	rows, total, err := h.customers.List(c.UserContext(), principal.Role, input)
	if err != nil {
		return err
	}

	response := dto.CustomerListResponse{
		Customers: make([]dto.CustomerResponse, 0, len(rows)),
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}
	for _, row := range rows {
		response.Customers = append(response.Customers, customerRowResponse(row))
	}
	return c.JSON(response)
}

// Update handles PUT /customers/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	customer, err := h.customers.Update(c.UserContext(), principal.User, principal.Role, id, service.CustomerUpdateInput{
		FullName:    req.FullName,
		YearOfBirth: req.YearOfBirth,
		PhoneNumber: req.PhoneNumber,
		Note:        req.Note,
		RoleNote:    req.RoleNote,
		TeamID:      req.TeamID,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(customerResponse(customer))
}

// Delete handles DELETE /customers/:id.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.customers.Delete(c.UserContext(), principal.User, principal.Role, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "customer deleted"})
}

// Export handles GET /customers/export. Admin only; returns every customer
// regardless of team.
func (h *CustomersHandler) Export(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}

	rows, err := h.customers.Export(c.UserContext())
	if err != nil {
		return err
	}

	customers := make([]dto.CustomerExportRow, 0, len(rows))
	for _, row := range rows {
		entry := dto.CustomerExportRow{
			ID:            row.ID,
			FullName:      row.FullName,
			YearOfBirth:   row.YearOfBirth,
			PhoneNumber:   row.PhoneNumber,
			Note:          row.Note,
			RoleNoteLabel: row.RoleNote.Label(),
			Status:        row.Status,
			TeamName:      row.TeamName,
			CreatedBy:     row.CreatedByLabel,
			UpdatedBy:     row.UpdatedByLabel,
			CreatedAt:     row.CreatedAt,
		}
		// the close date only means something for closed customers
		if row.Status == domain.CustomerStatusClosed {
			updatedAt := row.UpdatedAt
			entry.UpdatedAt = &updatedAt
		}
		customers = append(customers, entry)
	}
	return c.JSON(fiber.Map{"customers": customers, "total": len(customers)})
}
