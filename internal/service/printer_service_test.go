package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/events"
	apperrors "github.com/spec-kit/it-manager/pkg/util/errorutil"
)

type countingCache struct {
	printers    []domain.Printer
	warm        bool
	gets        int
	sets        int
	invalidated int
}

func (c *countingCache) Get(context.Context) ([]domain.Printer, bool, error) {
	c.gets++
	return c.printers, c.warm, nil
}

func (c *countingCache) Set(_ context.Context, printers []domain.Printer) error {
	c.sets++
	c.printers = printers
	c.warm = true
	return nil
}

func (c *countingCache) Invalidate(context.Context) error {
	c.invalidated++
	c.printers = nil
	c.warm = false
	return nil
}

func (f *fixture) printer(t *testing.T, colorful bool) *domain.Printer {
	t.Helper()
	printer, err := f.printerSvc.CreatePrinter(context.Background(), CreatePrinterInput{
		Name:       "HP LaserJet",
		IsColorful: colorful,
		Department: domain.PrinterDepartmentPCP,
	})
	require.NoError(t, err)
	return printer
}

func stockOf(p *domain.Printer) map[domain.InkColor]int {
	out := map[domain.InkColor]int{}
	for _, s := range p.Stock {
		out[s.Color] = s.Amount
	}
	return out
}

func TestCreatePrinterStartsEmpty(t *testing.T) {
	f := newFixture(t)

	color := f.printer(t, true)
	mono := f.printer(t, false)

	assert.Equal(t, domain.PrinterCategory, color.Category)
	assert.Equal(t, map[domain.InkColor]int{"black": 0, "cyan": 0, "magenta": 0, "yellow": 0}, stockOf(color))
	assert.Equal(t, map[domain.InkColor]int{"black": 0}, stockOf(mono))
}

func TestCreatePrinterRejectsUnknownDepartment(t *testing.T) {
	f := newFixture(t)

	_, err := f.printerSvc.CreatePrinter(context.Background(), CreatePrinterInput{Name: "X", Department: "marketing"})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestUpdatePrinterWritesHistory(t *testing.T) {
	f := newFixture(t)
	printer := f.printer(t, true)
	ctx := context.Background()

	_, err := f.printerSvc.UpdatePrinter(ctx, printer.ID, UpdatePrinterInput{
		Stock: []domain.InkStock{{Color: "black", Amount: 3}, {Color: "cyan", Amount: 1}, {Color: "magenta"}, {Color: "yellow"}},
	})
	require.NoError(t, err)

	receiver := "Maria"
	updated, err := f.printerSvc.UpdatePrinter(ctx, printer.ID, UpdatePrinterInput{
		Stock:      []domain.InkStock{{Color: "black", Amount: 2}, {Color: "cyan", Amount: 0}, {Color: "magenta"}, {Color: "yellow"}},
		DeliveryTo: &receiver,
	})
	require.NoError(t, err)
	assert.Equal(t, map[domain.InkColor]int{"black": 2, "cyan": 0, "magenta": 0, "yellow": 0}, stockOf(updated))

	history, err := f.printerSvc.ListInkStockHistory(ctx, printer.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)

	assert.Equal(t, domain.InkMovementIncome, history[0].Type)
	assert.Equal(t, domain.InkBlack, history[0].Color)
	assert.Equal(t, 3, history[0].Amount)
	assert.Nil(t, history[0].DeliveryTo)

	outcome := history[2]
	assert.Equal(t, domain.InkMovementOutcome, outcome.Type)
	assert.Equal(t, 1, outcome.Amount)
	require.NotNil(t, outcome.DeliveryTo)
	assert.Equal(t, "Maria", *outcome.DeliveryTo)
	assert.True(t, outcome.Date.Equal(fixedNow))

	assert.Len(t, f.events.ofType(events.EventInkStockChanged), 2)
	depleted := f.events.ofType(events.EventInkStockDepleted)
	require.Len(t, depleted, 1)
	assert.Equal(t, []domain.InkColor{domain.InkCyan}, depleted[0].Payload.(events.InkStockDepletedPayload).Colors)
}

func TestUpdatePrinterWithoutChangesWritesNothing(t *testing.T) {
	f := newFixture(t)
	printer := f.printer(t, false)

	_, err := f.printerSvc.UpdatePrinter(context.Background(), printer.ID, UpdatePrinterInput{
		Name:  "Renamed",
		Stock: []domain.InkStock{{Color: "black", Amount: 0}},
	})
	require.NoError(t, err)

	stored, err := f.printerSvc.GetPrinter(context.Background(), printer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Name)
	assert.Empty(t, f.printers.History)
	assert.Empty(t, f.events.ofType(events.EventInkStockChanged))
}

func TestUpdatePrinterRejectsInvalidStock(t *testing.T) {
	f := newFixture(t)
	printer := f.printer(t, false)

	cases := map[string][]domain.InkStock{
		"negative":  {{Color: "black", Amount: -1}},
		"foreign":   {{Color: "black", Amount: 1}, {Color: "cyan", Amount: 1}},
		"missing":   {},
		"duplicate": {{Color: "black", Amount: 1}, {Color: "black", Amount: 2}},
	}
	for name, stock := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.printerSvc.UpdatePrinter(context.Background(), printer.ID, UpdatePrinterInput{Stock: stock})
			assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		})
	}
	stored, err := f.printerSvc.GetPrinter(context.Background(), printer.ID)
	require.NoError(t, err)
	assert.Equal(t, map[domain.InkColor]int{"black": 0}, stockOf(stored))
}

func TestUpdatePrinterUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.printerSvc.UpdatePrinter(context.Background(), "missing", UpdatePrinterInput{})
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestConcurrentUpdatesKeepLedgerInStep(t *testing.T) {
	f := newFixture(t)
	printer := f.printer(t, false)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.printerSvc.UpdatePrinter(ctx, printer.ID, UpdatePrinterInput{
				Stock: []domain.InkStock{{Color: domain.InkBlack, Amount: 1}},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := f.printerSvc.GetPrinter(ctx, printer.ID)
	require.NoError(t, err)
	history, err := f.printerSvc.ListInkStockHistory(ctx, printer.ID)
	require.NoError(t, err)

	net := 0
	for _, h := range history {
		if h.Type == domain.InkMovementIncome {
			net += h.Amount
		} else {
			net -= h.Amount
		}
	}
	assert.Equal(t, 1, stockOf(stored)[domain.InkBlack])
	assert.Equal(t, 1, net)
	assert.Len(t, history, 1)
}

func TestListPrintersUsesCache(t *testing.T) {
	f := newFixture(t)
	cache := &countingCache{}
	svc := NewPrinterService(PrinterDependencies{PrinterRepo: f.printers, HistoryRepo: f.printers, Cache: cache})
	ctx := context.Background()

	created, err := svc.CreatePrinter(ctx, CreatePrinterInput{Name: "Epson", Department: domain.PrinterDepartmentRH})
	require.NoError(t, err)

	first, err := svc.ListPrinters(ctx)
	require.NoError(t, err)
	second, err := svc.ListPrinters(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)

	_, err = svc.UpdatePrinter(ctx, created.ID, UpdatePrinterInput{Stock: []domain.InkStock{{Color: "black", Amount: 5}}})
	require.NoError(t, err)
	assert.Equal(t, 2, cache.invalidated)

	after, err := svc.ListPrinters(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, 5, after[0].Stock[0].Amount)
}

func TestListPrintersEmptyIsNotNil(t *testing.T) {
	f := newFixture(t)

	printers, err := f.printerSvc.ListPrinters(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, printers)
	assert.Empty(t, printers)
}

func TestListInkStockHistory(t *testing.T) {
	f := newFixture(t)
	printer := f.printer(t, false)

	history, err := f.printerSvc.ListInkStockHistory(context.Background(), printer.ID)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	_, err = f.printerSvc.ListInkStockHistory(context.Background(), "missing")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
