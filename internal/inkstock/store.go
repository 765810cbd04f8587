package inkstock

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/it-manager/internal/api/dto"
)

var (
	// ErrPrinterNotFound is returned when selecting an id absent from the loaded list.
	ErrPrinterNotFound = errors.New("printer not found")
	// ErrNoPrinterSelected is returned by stock changes made before any selection.
	ErrNoPrinterSelected = errors.New("no printer selected")
	// ErrPrinterNotSelected is returned by stock changes aimed at a printer other than the selected one.
	ErrPrinterNotSelected = errors.New("printer is not the selected one")
)

// API is the part of the REST API the Store depends on. *Client implements it.
type API interface {
	ListPrinters(ctx context.Context) ([]dto.PrinterPayload, error)
	UpdatePrinter(ctx context.Context, printer dto.PrinterPayload) (*dto.PrinterPayload, error)
	ListInkStockHistory(ctx context.Context, printerID string) ([]dto.InkStockHistoryResponse, error)
}

// Store holds the printers loaded from the API, the selected printer and its ledger.
type Store struct {
	api    API
	logger *zap.Logger

	mu       sync.RWMutex
	printers []dto.PrinterPayload
	selected *dto.PrinterPayload
	history  []dto.InkStockHistoryResponse
}

// NewStore builds an empty store.
func NewStore(api API, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{api: api, logger: logger}
}

// Printers returns a copy of the loaded printers.
func (s *Store) Printers() []dto.PrinterPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dto.PrinterPayload, 0, len(s.printers))
	for _, p := range s.printers {
		out = append(out, clonePrinter(p))
	}
	return out
}

// SelectedPrinter returns the selected printer, if any.
func (s *Store) SelectedPrinter() (dto.PrinterPayload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return dto.PrinterPayload{}, false
	}
	return clonePrinter(*s.selected), true
}

// InkStockHistory returns the ledger loaded for the selected printer.
func (s *Store) InkStockHistory() []dto.InkStockHistoryResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]dto.InkStockHistoryResponse{}, s.history...)
}

// PrinterEmptyInkStock lists the selected printer's colors with no cartridges left.
func (s *Store) PrinterEmptyInkStock() []dto.InkStockPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	empty := []dto.InkStockPayload{}
	if s.selected == nil {
		return empty
	}
	for _, ink := range s.selected.Stock {
		if ink.Amount == 0 {
			empty = append(empty, ink)
		}
	}
	return empty
}

// HasInkStockAlert reports whether any color of the selected printer is empty.
func (s *Store) HasInkStockAlert() bool {
	return len(s.PrinterEmptyInkStock()) > 0
}

// LoadPrinters replaces the printer list with the server's.
func (s *Store) LoadPrinters(ctx context.Context) error {
	printers, err := s.api.ListPrinters(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.printers = printers
	s.mu.Unlock()
	return nil
}

// SelectPrinter picks a printer from the loaded list and loads its ledger.
// An unknown id leaves the state untouched.
func (s *Store) SelectPrinter(ctx context.Context, printerID string) error {
	s.mu.Lock()
	var found *dto.PrinterPayload
	for i := range s.printers {
		if s.printers[i].ID == printerID {
			p := clonePrinter(s.printers[i])
			found = &p
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		s.logger.Error("printer not found", zap.String("printer_id", printerID))
		return ErrPrinterNotFound
	}
	s.selected = found
	s.mu.Unlock()

	return s.LoadInkStockHistory(ctx)
}

// LoadInkStockHistory fetches the ledger of the selected printer.
func (s *Store) LoadInkStockHistory(ctx context.Context) error {
	selected, ok := s.SelectedPrinter()
	if !ok {
		return ErrNoPrinterSelected
	}
	history, err := s.api.ListInkStockHistory(ctx, selected.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.history = history
	s.mu.Unlock()
	return nil
}

// AddInk raises one color of the selected printer by one cartridge.
func (s *Store) AddInk(ctx context.Context, printerID, color string) error {
	return s.changeInk(ctx, printerID, color, 1, nil)
}

// RemoveInk lowers one color of the selected printer by one cartridge. An empty
// color stays at zero and the unchanged printer is still sent.
func (s *Store) RemoveInk(ctx context.Context, printerID, color string) error {
	return s.changeInk(ctx, printerID, color, -1, nil)
}

// DeliverInk is RemoveInk that also records who received the cartridge.
func (s *Store) DeliverInk(ctx context.Context, printerID, color, deliveryTo string) error {
	return s.changeInk(ctx, printerID, color, -1, &deliveryTo)
}

// changeInk sends the selected printer with one color adjusted to PUT /printers/:id.
// printerID must name the selected printer. Local state follows only when the server accepts it.
func (s *Store) changeInk(ctx context.Context, printerID, color string, delta int, deliveryTo *string) error {
	selected, ok := s.SelectedPrinter()
	if !ok {
		return ErrNoPrinterSelected
	}
	if printerID != selected.ID {
		s.logger.Error("ink change for a printer that is not selected",
			zap.String("printer_id", printerID), zap.String("selected_id", selected.ID))
		return ErrPrinterNotSelected
	}

	next := clonePrinter(selected)
	for i, ink := range next.Stock {
		if ink.Color != color {
			continue
		}
		amount := ink.Amount + delta
		if amount < 0 {
			amount = 0
		}
		next.Stock[i].Amount = amount
	}

	request := next
	request.DeliveryTo = deliveryTo
	if _, err := s.api.UpdatePrinter(ctx, request); err != nil {
		s.logger.Warn("ink update rejected", zap.String("printer_id", printerID), zap.String("color", color), zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.selected = &next
	s.mu.Unlock()

	if err := s.LoadInkStockHistory(ctx); err != nil {
		return err
	}
	return s.LoadPrinters(ctx)
}

func clonePrinter(p dto.PrinterPayload) dto.PrinterPayload {
	p.Stock = append([]dto.InkStockPayload(nil), p.Stock...)
	if p.DeliveryTo != nil {
		v := *p.DeliveryTo
		p.DeliveryTo = &v
	}
	return p
}
