package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-manager/internal/api/dto"
	"github.com/spec-kit/it-manager/internal/service"
)

// LicensesHandler exposes license endpoints.
type LicensesHandler struct {
	service *service.LicenseService
}

// NewLicensesHandler constructs handler.
func NewLicensesHandler(svc *service.LicenseService) *LicensesHandler {
	return &LicensesHandler{service: svc}
}

// Create handles POST /licenses.
func (h *LicensesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateLicenseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	license, err := h.service.CreateLicense(c.UserContext(), service.LicenseInput{
		Name:         req.Name,
		Quantity:     req.Quantity,
		DepartmentID: req.DepartmentID,
		ExpiresAt:    req.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"license": dto.NewLicenseResponse(license)})
}

// List handles GET /licenses.
func (h *LicensesHandler) List(c *fiber.Ctx) error {
	licenses, err := h.service.ListLicenses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"licenses": dto.NewLicenseListResponse(licenses)})
}

// Get handles GET /licenses/:id.
func (h *LicensesHandler) Get(c *fiber.Ctx) error {
	license, err := h.service.GetLicenseByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"license": dto.NewLicenseResponse(license)})
}

// EditExpireDate handles PATCH /licenses/:licenseId/expire-date.
func (h *LicensesHandler) EditExpireDate(c *fiber.Ctx) error {
	var req dto.EditLicenseExpireDateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.service.EditLicenseExpireDate(c.UserContext(), c.Params("licenseId"), req.ExpiresAt); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete handles DELETE /licenses/:id.
func (h *LicensesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteLicense(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
