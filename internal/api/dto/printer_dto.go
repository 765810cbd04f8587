package dto

import (
	"time"

	"github.com/spec-kit/it-manager/internal/domain"
)

// CreatePrinterRequest is the body of POST /printers.
type CreatePrinterRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	IsColorful bool   `json:"isColorful"`
	Department string `json:"department" validate:"required,oneof=qualidade pcp custos rh"`
}

// InkStockPayload is one color of a printer's stock on the wire.
type InkStockPayload struct {
	Color  string `json:"color" validate:"required,oneof=black cyan magenta yellow"`
	Amount int    `json:"amount" validate:"min=0"`
}

// PrinterPayload is the full printer object exchanged by GET and PUT /printers.
// DeliveryTo is only read on PUT and names who received removed cartridges.
type PrinterPayload struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	IsColorful bool              `json:"isColorful"`
	Category   string            `json:"category"`
	Department string            `json:"department" validate:"omitempty,oneof=qualidade pcp custos rh"`
	Stock      []InkStockPayload `json:"stock" validate:"required,dive"`
	DeliveryTo *string           `json:"deliveryTo,omitempty"`
}

// InkStockHistoryResponse is one ledger line on the wire.
type InkStockHistoryResponse struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Amount     int       `json:"amount"`
	Color      string    `json:"color"`
	DeliveryTo *string   `json:"deliveryTo"`
	Type       string    `json:"type"`
	PrinterID  string    `json:"printer_id"`
}

// NewPrinterPayload maps a domain printer.
func NewPrinterPayload(p *domain.Printer) PrinterPayload {
	stock := make([]InkStockPayload, 0, len(p.Stock))
	for _, s := range p.Stock {
		stock = append(stock, InkStockPayload{Color: string(s.Color), Amount: s.Amount})
	}
	return PrinterPayload{
		ID:         p.ID,
		Name:       p.Name,
		IsColorful: p.IsColorful,
		Category:   p.Category,
		Department: string(p.Department),
		Stock:      stock,
	}
}

// NewPrinterListPayload maps a list, never returning nil.
func NewPrinterListPayload(printers []domain.Printer) []PrinterPayload {
	out := make([]PrinterPayload, 0, len(printers))
	for i := range printers {
		out = append(out, NewPrinterPayload(&printers[i]))
	}
	return out
}

// DomainStock converts the wire stock to domain values.
func (p PrinterPayload) DomainStock() []domain.InkStock {
	stock := make([]domain.InkStock, 0, len(p.Stock))
	for _, s := range p.Stock {
		stock = append(stock, domain.InkStock{Color: domain.InkColor(s.Color), Amount: s.Amount})
	}
	return stock
}

// NewInkStockHistoryResponse maps a list of ledger entries, never returning nil.
func NewInkStockHistoryResponse(entries []domain.InkStockHistoryEntry) []InkStockHistoryResponse {
	out := make([]InkStockHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, InkStockHistoryResponse{
			ID:         e.ID,
			Date:       e.Date,
			Amount:     e.Amount,
			Color:      string(e.Color),
			DeliveryTo: e.DeliveryTo,
			Type:       string(e.Type),
			PrinterID:  e.PrinterID,
		})
	}
	return out
}
