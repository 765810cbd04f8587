package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-manager/internal/api/dto"
	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/service"
	apperrors "github.com/spec-kit/it-manager/pkg/util/errorutil"
)

// PrintersHandler exposes printer and ink stock endpoints.
type PrintersHandler struct {
	service *service.PrinterService
}

// NewPrintersHandler constructs handler.
func NewPrintersHandler(svc *service.PrinterService) *PrintersHandler {
	return &PrintersHandler{service: svc}
}

// List handles GET /printers. The body is a bare array.
func (h *PrintersHandler) List(c *fiber.Ctx) error {
	printers, err := h.service.ListPrinters(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPrinterListPayload(printers))
}

// Get handles GET /printers/:id.
func (h *PrintersHandler) Get(c *fiber.Ctx) error {
	printer, err := h.service.GetPrinter(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPrinterPayload(printer))
}

// Create handles POST /printers.
func (h *PrintersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePrinterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	printer, err := h.service.CreatePrinter(c.UserContext(), service.CreatePrinterInput{
		Name:       req.Name,
		IsColorful: req.IsColorful,
		Department: domain.PrinterDepartment(req.Department),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewPrinterPayload(printer))
}

// Update handles PUT /printers/:id with the full printer object.
func (h *PrintersHandler) Update(c *fiber.Ctx) error {
	var req dto.PrinterPayload
	if err := parseBody(c, &req); err != nil {
		return err
	}
	id := c.Params("id")
	if req.ID != "" && req.ID != id {
		return apperrors.NewValidationError("body id does not match path", map[string]any{"id": req.ID})
	}
	printer, err := h.service.UpdatePrinter(c.UserContext(), id, service.UpdatePrinterInput{
		Name:       req.Name,
		Department: domain.PrinterDepartment(req.Department),
		Stock:      req.DomainStock(),
		DeliveryTo: req.DeliveryTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPrinterPayload(printer))
}

// History handles GET /ink-stock-history?printer_id=. The body is a bare array.
func (h *PrintersHandler) History(c *fiber.Ctx) error {
	printerID := strings.TrimSpace(c.Query("printer_id"))
	if printerID == "" {
		return apperrors.NewValidationError("printer_id is required", nil)
	}
	entries, err := h.service.ListInkStockHistory(c.UserContext(), printerID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInkStockHistoryResponse(entries))
}
