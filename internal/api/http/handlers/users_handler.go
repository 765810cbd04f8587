package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-manager/internal/api/dto"
	"github.com/spec-kit/it-manager/internal/auth"
	"github.com/spec-kit/it-manager/internal/repository"
	"github.com/spec-kit/it-manager/internal/service"
	apperrors "github.com/spec-kit/it-manager/pkg/util/errorutil"
)

// UsersHandler exposes user endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(svc *service.UserService) *UsersHandler {
	return &UsersHandler{service: svc}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.service.RegisterUser(c.UserContext(), service.UserInput{
		Name:         req.Name,
		Email:        req.Email,
		Badge:        req.Badge,
		Phone:        req.Phone,
		DepartmentID: req.DepartmentID,
		Password:     req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"user": dto.NewUserResponse(user)})
}

// List handles GET /users?departmentId=&page=&page_size=.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	filter := repository.UserFilter{}
	if dept := strings.TrimSpace(c.Query("departmentId")); dept != "" {
		filter.DepartmentID = &dept
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	users, err := h.service.ListUsers(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": dto.NewUserListResponse(users)})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.service.GetUserByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(user)})
}

// EditDepartment handles PATCH /users/:userId/edit-department.
func (h *UsersHandler) EditDepartment(c *fiber.Ctx) error {
	var req dto.EditUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.service.EditUser(c.UserContext(), c.Params("userId"), service.UserInput{
		Name:         req.Name,
		Email:        req.Email,
		Badge:        req.Badge,
		Phone:        req.Phone,
		DepartmentID: req.DepartmentID,
	}); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete handles DELETE /users/:id. An authenticated caller cannot delete itself.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.User.ID == id {
		return apperrors.NewForbidden("cannot delete your own account")
	}
	if err := h.service.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
