package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dulieucongty68/pmql-be/internal/api/dto"
	"github.com/dulieucongty68/pmql-be/internal/auth"
	"github.com/dulieucongty68/pmql-be/internal/domain"
	"github.com/dulieucongty68/pmql-be/internal/repository"
	apperrors "github.com/dulieucongty68/pmql-be/pkg/util"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"param": name})
	}
	return id, nil
}

func pageQuery(c *fiber.Ctx) (page, pageSize int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func customerRowResponse(row repository.CustomerRow) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:            row.ID,
		FullName:      row.FullName,
		YearOfBirth:   row.YearOfBirth,
		PhoneNumber:   row.PhoneNumber,
		Note:          row.Note,
		RoleNote:      row.RoleNote,
		RoleNoteLabel: row.RoleNote.Label(),
		Status:        row.Status,
		TeamID:        row.TeamID,
		TeamName:      row.TeamName,
		CreatedBy:     row.CreatedByLabel,
		UpdatedBy:     row.UpdatedByLabel,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func customerResponse(customer *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:            customer.ID,
		FullName:      customer.FullName,
		YearOfBirth:   customer.YearOfBirth,
		PhoneNumber:   customer.PhoneNumber,
		Note:          customer.Note,
		RoleNote:      customer.RoleNote,
		RoleNoteLabel: customer.RoleNote.Label(),
		Status:        customer.Status,
		TeamID:        customer.TeamID,
		CreatedAt:     customer.CreatedAt,
		UpdatedAt:     customer.UpdatedAt,
	}
}

func employeeSummary(user *domain.User) dto.EmployeeSummary {
	return dto.EmployeeSummary{
		ID:           user.ID,
		Username:     user.Username,
		Name:         user.Name,
		RoleLabel:    domain.RoleOf(user).Label(),
		IsAdmin:      user.IsAdmin,
		IsTeamLead:   user.IsTeamLead,
		IsFirstLogin: user.IsFirstLogin,
		Status:       user.Status,
		TeamID:       user.TeamID,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func employeeRowSummary(row repository.EmployeeRow) dto.EmployeeSummary {
	summary := employeeSummary(&row.User)
	summary.CreatedBy = row.CreatedByUsername
	summary.UpdatedBy = row.UpdatedByUsername
	return summary
}

func teamRowResponse(row repository.TeamRow) dto.TeamResponse {
	return dto.TeamResponse{
		ID:        row.ID,
		TeamName:  row.Name,
		CreatedBy: row.CreatedByUsername,
		UpdatedBy: row.UpdatedByUsername,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
