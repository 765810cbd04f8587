package domain

import (
	"errors"
	"fmt"
)

// InkColor identifies a cartridge color.
type InkColor string

const (
	InkBlack   InkColor = "black"
	InkCyan    InkColor = "cyan"
	InkMagenta InkColor = "magenta"
	InkYellow  InkColor = "yellow"
)

// PrinterDepartment is the area a printer is assigned to.
type PrinterDepartment string

const (
	PrinterDepartmentQualidade PrinterDepartment = "qualidade"
	PrinterDepartmentPCP       PrinterDepartment = "pcp"
	PrinterDepartmentCustos    PrinterDepartment = "custos"
	PrinterDepartmentRH        PrinterDepartment = "rh"
)

// PrinterCategory is the only category tracked today.
const PrinterCategory = "printer"

var (
	ErrNegativeInkAmount = errors.New("ink amount must not be negative")
	ErrUnknownInkColor   = errors.New("ink color not supported by printer")
	ErrDuplicateInkColor = errors.New("ink color listed more than once")
	ErrMissingInkColor   = errors.New("printer stock is missing a color")
)

// InkStock is the number of cartridges of one color on hand.
type InkStock struct {
	Color  InkColor `json:"color"`
	Amount int      `json:"amount"`
}

// Printer holds per-color ink stock for a device.
type Printer struct {
	ID         string
	Name       string
	IsColorful bool
	Category   string
	Department PrinterDepartment
	Stock      []InkStock
}

// ColorsFor lists the cartridge colors a printer uses.
func ColorsFor(isColorful bool) []InkColor {
	if isColorful {
		return []InkColor{InkBlack, InkCyan, InkMagenta, InkYellow}
	}
	return []InkColor{InkBlack}
}

// ValidPrinterDepartment reports whether d is a known printer department.
func ValidPrinterDepartment(d PrinterDepartment) bool {
	switch d {
	case PrinterDepartmentQualidade, PrinterDepartmentPCP, PrinterDepartmentCustos, PrinterDepartmentRH:
		return true
	}
	return false
}

// NewPrinter builds a printer with every supported color at zero.
func NewPrinter(id, name string, isColorful bool, department PrinterDepartment) *Printer {
	colors := ColorsFor(isColorful)
	stock := make([]InkStock, 0, len(colors))
	for _, color := range colors {
		stock = append(stock, InkStock{Color: color})
	}
	return &Printer{
		ID:         id,
		Name:       name,
		IsColorful: isColorful,
		Category:   PrinterCategory,
		Department: department,
		Stock:      stock,
	}
}

// Clone returns a deep copy so callers can mutate stock without aliasing.
func (p Printer) Clone() Printer {
	p.Stock = append([]InkStock(nil), p.Stock...)
	return p
}

// Amount returns the stock for a color and whether the printer tracks it.
func (p *Printer) Amount(color InkColor) (int, bool) {
	for _, s := range p.Stock {
		if s.Color == color {
			return s.Amount, true
		}
	}
	return 0, false
}

// WithInkDelta returns a copy of the printer where color's amount changed by delta,
// floored at zero. Other colors are untouched.
func (p Printer) WithInkDelta(color InkColor, delta int) Printer {
	out := p.Clone()
	for i, s := range out.Stock {
		if s.Color != color {
			continue
		}
		next := s.Amount + delta
		if next < 0 {
			next = 0
		}
		out.Stock[i].Amount = next
	}
	return out
}

// EmptyInks lists the stock entries that reached zero.
func (p *Printer) EmptyInks() []InkStock {
	var empty []InkStock
	for _, s := range p.Stock {
		if s.Amount == 0 {
			empty = append(empty, s)
		}
	}
	return empty
}

// ValidateStock checks that stock has exactly the printer's colors, once each, non-negative.
func (p *Printer) ValidateStock(stock []InkStock) error {
	allowed := make(map[InkColor]bool)
	for _, c := range ColorsFor(p.IsColorful) {
		allowed[c] = false
	}
	for _, s := range stock {
		seen, ok := allowed[s.Color]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownInkColor, s.Color)
		}
		if seen {
			return fmt.Errorf("%w: %s", ErrDuplicateInkColor, s.Color)
		}
		if s.Amount < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeInkAmount, s.Color)
		}
		allowed[s.Color] = true
	}
	for color, seen := range allowed {
		if !seen {
			return fmt.Errorf("%w: %s", ErrMissingInkColor, color)
		}
	}
	return nil
}

// StockChange is the signed difference for one color between two stock snapshots.
type StockChange struct {
	Color InkColor
	Delta int
	After int
}

// DiffStock compares the printer's current stock to next, in the printer's color order.
// Colors without a change are omitted.
func (p *Printer) DiffStock(next []InkStock) []StockChange {
	nextByColor := make(map[InkColor]int, len(next))
	for _, s := range next {
		nextByColor[s.Color] = s.Amount
	}
	var changes []StockChange
	for _, s := range p.Stock {
		after, ok := nextByColor[s.Color]
		if !ok || after == s.Amount {
			continue
		}
		changes = append(changes, StockChange{Color: s.Color, Delta: after - s.Amount, After: after})
	}
	return changes
}
