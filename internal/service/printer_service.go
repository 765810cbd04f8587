package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/events"
	"github.com/spec-kit/it-manager/internal/repository"
	apperrors "github.com/spec-kit/it-manager/pkg/util/errorutil"
)

// PrinterCache stores the printer list between mutations.
type PrinterCache interface {
	Get(ctx context.Context) ([]domain.Printer, bool, error)
	Set(ctx context.Context, printers []domain.Printer) error
	Invalidate(ctx context.Context) error
}

// PrinterService implements printer and ink stock use cases.
type PrinterService struct {
	printers repository.PrinterRepository
	history  repository.InkStockHistoryRepository
	cache    PrinterCache
	ids      *snowflake.Node
	events   publisher
	logger   *zap.Logger
	now      Clock
}

// PrinterDependencies bundles what PrinterService needs. Cache and IDNode are optional.
type PrinterDependencies struct {
	PrinterRepo repository.PrinterRepository
	HistoryRepo repository.InkStockHistoryRepository
	Cache       PrinterCache
	IDNode      *snowflake.Node
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       Clock
}

// CreatePrinterInput carries the fields of a new printer.
type CreatePrinterInput struct {
	Name       string
	IsColorful bool
	Department domain.PrinterDepartment
}

// UpdatePrinterInput is the full printer state sent by a client plus who receives removed ink.
type UpdatePrinterInput struct {
	Name       string
	Department domain.PrinterDepartment
	Stock      []domain.InkStock
	DeliveryTo *string
}

// NewPrinterService constructs the service.
func NewPrinterService(deps PrinterDependencies) *PrinterService {
	node := deps.IDNode
	if node == nil {
		// node 0 is always in range
		node, _ = snowflake.NewNode(0)
	}
	logger := loggerOrNop(deps.Logger)
	return &PrinterService{
		printers: deps.PrinterRepo,
		history:  deps.HistoryRepo,
		cache:    deps.Cache,
		ids:      node,
		events:   publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:   logger,
		now:      clockOrSystem(deps.Clock),
	}
}

// ListPrinters returns every printer, from cache when warm.
func (s *PrinterService) ListPrinters(ctx context.Context) ([]domain.Printer, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("printer cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	printers, err := s.printers.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if printers == nil {
		printers = []domain.Printer{}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, printers); err != nil {
			s.logger.Warn("printer cache write failed", zap.Error(err))
		}
	}
	return printers, nil
}

// GetPrinter fetches a printer with its stock.
func (s *PrinterService) GetPrinter(ctx context.Context, id string) (*domain.Printer, error) {
	printer, err := s.printers.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "printer", "printer_id", id)
	}
	return printer, nil
}

// CreatePrinter registers a printer with every color it uses at zero.
func (s *PrinterService) CreatePrinter(ctx context.Context, input CreatePrinterInput) (*domain.Printer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if !domain.ValidPrinterDepartment(input.Department) {
		return nil, apperrors.NewValidationError("unknown printer department", map[string]any{"department": input.Department})
	}
	printer := domain.NewPrinter(uuid.NewString(), name, input.IsColorful, input.Department)
	if err := s.printers.Create(ctx, printer); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx)
	return printer, nil
}

// UpdatePrinter stores the new printer state and appends one ledger entry per
// color whose amount changed. The diff is taken against the locked stored row,
// so stock and ledger always agree.
func (s *PrinterService) UpdatePrinter(ctx context.Context, id string, input UpdatePrinterInput) (*domain.Printer, error) {
	if input.Department != "" && !domain.ValidPrinterDepartment(input.Department) {
		return nil, apperrors.NewValidationError("unknown printer department", map[string]any{"department": input.Department})
	}

	var (
		history  []domain.InkStockHistoryEntry
		depleted []domain.InkColor
	)
	deliveryTo := normalizeID(input.DeliveryTo)
	updated, err := s.printers.UpdateStock(ctx, id, func(current domain.Printer) (domain.Printer, []domain.InkStockHistoryEntry, error) {
		if err := current.ValidateStock(input.Stock); err != nil {
			return domain.Printer{}, nil, apperrors.NewValidationError(err.Error(), map[string]any{"printer_id": current.ID})
		}

		next := current.Clone()
		if name := strings.TrimSpace(input.Name); name != "" {
			next.Name = name
		}
		if input.Department != "" {
			next.Department = input.Department
		}

		at := s.now()
		history = history[:0]
		depleted = depleted[:0]
		for _, change := range current.DiffStock(input.Stock) {
			history = append(history, domain.HistoryFromChange(s.ids.Generate().String(), current.ID, change, deliveryTo, at))
			if change.After == 0 {
				depleted = append(depleted, change.Color)
			}
			for i := range next.Stock {
				if next.Stock[i].Color == change.Color {
					next.Stock[i].Amount = change.After
				}
			}
		}
		return next, history, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(err, "printer", "printer_id", id)
		}
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx)

	if len(history) > 0 {
		s.events.publish(ctx, events.Event{
			Type:      events.EventInkStockChanged,
			SubjectID: updated.ID,
			Payload:   events.InkStockChangedPayload{PrinterName: updated.Name, Entries: history},
		})
	}
	if len(depleted) > 0 {
		s.events.publish(ctx, events.Event{
			Type:      events.EventInkStockDepleted,
			SubjectID: updated.ID,
			Payload:   events.InkStockDepletedPayload{PrinterName: updated.Name, Colors: depleted},
		})
	}
	return updated, nil
}

// ListInkStockHistory returns the ledger of a printer ordered by date.
func (s *PrinterService) ListInkStockHistory(ctx context.Context, printerID string) ([]domain.InkStockHistoryEntry, error) {
	if _, err := s.GetPrinter(ctx, printerID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByPrinter(ctx, printerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if entries == nil {
		entries = []domain.InkStockHistoryEntry{}
	}
	return entries, nil
}

func (s *PrinterService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("printer cache invalidation failed", zap.Error(err))
	}
}
