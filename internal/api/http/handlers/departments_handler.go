package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-manager/internal/api/dto"
	"github.com/spec-kit/it-manager/internal/service"
)

// DepartmentsHandler exposes department endpoints.
type DepartmentsHandler struct {
	service *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(svc *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{service: svc}
}

// Create handles POST /departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	dept, err := h.service.CreateDepartment(c.UserContext(), service.DepartmentInput{
		Description: req.Description,
		Email:       req.Email,
		ChiefID:     req.ChiefID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"department": dto.NewDepartmentResponse(dept)})
}

// List handles GET /departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	depts, err := h.service.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"departments": dto.NewDepartmentListResponse(depts)})
}

// Get handles GET /departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	dept, err := h.service.GetDepartmentByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"department": dto.NewDepartmentResponse(dept)})
}

// Edit handles PUT /departments/:id.
func (h *DepartmentsHandler) Edit(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.service.EditDepartment(c.UserContext(), c.Params("id"), service.DepartmentInput{
		Description: req.Description,
		Email:       req.Email,
		ChiefID:     req.ChiefID,
	}); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete handles DELETE /departments/:id.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteDepartment(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
