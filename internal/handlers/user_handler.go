package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/middleware"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/services"
)

// UserHandler serves employee management and salary routes
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a UserHandler
func NewUserHandler(us *services.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// ListEmployees handles GET /api/users
func (h *UserHandler) ListEmployees(c *gin.Context) {
	profiles, err := h.userService.ListEmployees(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// GetEmployee handles GET /api/users/:id
func (h *UserHandler) GetEmployee(c *gin.Context) {
	profile, err := h.userService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// CreateEmployee handles POST /api/users
func (h *UserHandler) CreateEmployee(c *gin.Context) {
	var input models.CreateEmployeeInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := h.userService.CreateEmployee(c.Request.Context(), input)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// UpdateEmployee handles PUT /api/users/:id
func (h *UserHandler) UpdateEmployee(c *gin.Context) {
	var input models.ProfileUpdateDTO
	if !bindJSON(c, &input) {
		return
	}

	profile, err := h.userService.UpdateEmployee(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ResetPassword handles PATCH /api/users/:id/reset-password. The body is optional.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var input models.ResetPasswordInput
	if _, ok := bindOptionalJSON(c, &input); !ok {
		return
	}

	applied, err := h.userService.ResetPassword(c.Request.Context(), c.Param("id"), input.NewPassword)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset", "defaultPassword": applied})
}

// DeleteEmployee handles DELETE /api/users/:id
func (h *UserHandler) DeleteEmployee(c *gin.Context) {
	if err := h.userService.DeleteEmployee(c.Request.Context(), middleware.CurrentCaller(c), c.Param("id")); err != nil {
		middleware.RespondError(c, err)
		return
	}
	message(c, "employee deleted")
}

// BulkSetup handles POST /api/users/bulk-setup. Without a body the configured roster file is used.
func (h *UserHandler) BulkSetup(c *gin.Context) {
	var roster models.Roster
	present, ok := bindOptionalJSON(c, &roster)
	if !ok {
		return
	}
	var in *models.Roster
	if present {
		in = &roster
	}

	res, err := h.userService.Provision(c.Request.Context(), in)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "provisioning finished",
		"removed": res.Removed,
		"added":   res.Added,
	})
}

// GetOwnSalary handles GET /api/users/me/salary/:month
func (h *UserHandler) GetOwnSalary(c *gin.Context) {
	h.salaryFor(c, middleware.CurrentCaller(c).ID)
}

// GetSalary handles GET /api/users/:id/salary/:month
func (h *UserHandler) GetSalary(c *gin.Context) {
	h.salaryFor(c, c.Param("id"))
}

func (h *UserHandler) salaryFor(c *gin.Context, id string) {
	month := c.Param("month")
	if !services.ValidMonth(month) {
		middleware.RespondError(c, &services.Error{Kind: services.KindInvalid, Code: services.CodeInvalidMonth, Message: "month must have the form YYYY-MM"})
		return
	}
	salary, err := h.userService.GetSalary(c.Request.Context(), id, month)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, salary)
}

// GetSalaries handles GET /api/users/:id/salaries
func (h *UserHandler) GetSalaries(c *gin.Context) {
	salaries, err := h.userService.GetSalaries(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"salaries": salaries})
}

// SetSalary handles POST /api/users/:id/salary
func (h *UserHandler) SetSalary(c *gin.Context) {
	var input models.SetSalaryInput
	if !bindJSON(c, &input) {
		return
	}

	salary, err := h.userService.SetSalary(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "salary saved", "month": salary.Month, "salary": salary.Salary})
}
