package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/repository"
)

// PrinterRepository keeps printers and their ink ledger in memory. It satisfies
// both repository.PrinterRepository and repository.InkStockHistoryRepository.
type PrinterRepository struct {
	mu      sync.RWMutex
	Items   []domain.Printer
	History []domain.InkStockHistoryEntry
}

var (
	_ repository.PrinterRepository         = (*PrinterRepository)(nil)
	_ repository.InkStockHistoryRepository = (*PrinterRepository)(nil)
)

// NewPrinterRepository returns an empty repository.
func NewPrinterRepository() *PrinterRepository {
	return &PrinterRepository{}
}

func (r *PrinterRepository) Create(_ context.Context, printer *domain.Printer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(printer.ID) >= 0 {
		return uniqueViolation("printers_pkey")
	}
	r.Items = append(r.Items, printer.Clone())
	return nil
}

func (r *PrinterRepository) GetByID(_ context.Context, id string) (*domain.Printer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		printer := r.Items[i].Clone()
		return &printer, nil
	}
	return nil, repository.ErrNotFound
}

func (r *PrinterRepository) List(_ context.Context) ([]domain.Printer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Printer, 0, len(r.Items))
	for _, item := range r.Items {
		out = append(out, item.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// UpdateStock holds the write lock while mutate runs, so concurrent updates
// see each other's stock.
func (r *PrinterRepository) UpdateStock(_ context.Context, id string, mutate repository.StockMutation) (*domain.Printer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	next, history, err := mutate(r.Items[i].Clone())
	if err != nil {
		return nil, err
	}
	next.ID = r.Items[i].ID
	r.Items[i] = next.Clone()
	for _, h := range history {
		h.DeliveryTo = cloneString(h.DeliveryTo)
		r.History = append(r.History, h)
	}
	stored := next.Clone()
	return &stored, nil
}

func (r *PrinterRepository) ListByPrinter(_ context.Context, printerID string) ([]domain.InkStockHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.InkStockHistoryEntry
	for _, h := range r.History {
		if h.PrinterID == printerID {
			h.DeliveryTo = cloneString(h.DeliveryTo)
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *PrinterRepository) indexOf(id string) int {
	for i, item := range r.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
