package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-manager/internal/domain"
)

// PrinterRepository manages printers and their ink stock.
type PrinterRepository interface {
	Create(ctx context.Context, printer *domain.Printer) error
	GetByID(ctx context.Context, id string) (*domain.Printer, error)
	List(ctx context.Context) ([]domain.Printer, error)
	// UpdateStock locks the printer, hands its current state to mutate and stores
	// the result together with the ledger entries mutate returns, in one unit of work.
	UpdateStock(ctx context.Context, id string, mutate StockMutation) (*domain.Printer, error)
}

// StockMutation derives the next printer state and its ledger entries from the
// locked current state. Returning an error aborts the update.
type StockMutation func(current domain.Printer) (domain.Printer, []domain.InkStockHistoryEntry, error)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type printerRepository struct {
	pool *pgxpool.Pool
}

// NewPrinterRepository builds the repository.
func NewPrinterRepository(pool *pgxpool.Pool) PrinterRepository {
	return &printerRepository{pool: pool}
}

func (r *printerRepository) Create(ctx context.Context, printer *domain.Printer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertPrinter = `
        INSERT INTO printers (id, name, is_colorful, category, department)
        VALUES ($1,$2,$3,$4,$5)`
	if _, err := tx.Exec(ctx, insertPrinter,
		printer.ID,
		printer.Name,
		printer.IsColorful,
		printer.Category,
		printer.Department,
	); err != nil {
		return fmt.Errorf("insert printer: %w", err)
	}

	batch := &pgx.Batch{}
	for i, s := range printer.Stock {
		batch.Queue(`INSERT INTO printer_ink_stock (printer_id, color, amount, position) VALUES ($1,$2,$3,$4)`,
			printer.ID, s.Color, s.Amount, i)
	}
	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("insert stock: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *printerRepository) GetByID(ctx context.Context, id string) (*domain.Printer, error) {
	const query = `
        SELECT id, name, is_colorful, category, department
        FROM printers WHERE id=$1`
	var printer domain.Printer
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&printer.ID,
		&printer.Name,
		&printer.IsColorful,
		&printer.Category,
		&printer.Department,
	); err != nil {
		return nil, err
	}

	stock, err := loadStock(ctx, r.pool, []string{id})
	if err != nil {
		return nil, err
	}
	printer.Stock = stock[id]
	return &printer, nil
}

func (r *printerRepository) List(ctx context.Context) ([]domain.Printer, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, name, is_colorful, category, department
        FROM printers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Printer
	var ids []string
	for rows.Next() {
		var printer domain.Printer
		if err := rows.Scan(&printer.ID, &printer.Name, &printer.IsColorful, &printer.Category, &printer.Department); err != nil {
			return nil, err
		}
		result = append(result, printer)
		ids = append(ids, printer.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return result, nil
	}

	stock, err := loadStock(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Stock = stock[result[i].ID]
	}
	return result, nil
}

func loadStock(ctx context.Context, q querier, printerIDs []string) (map[string][]domain.InkStock, error) {
	const query = `
        SELECT printer_id, color, amount FROM printer_ink_stock
        WHERE printer_id = ANY($1::uuid[]) ORDER BY printer_id, position`
	rows, err := q.Query(ctx, query, printerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.InkStock, len(printerIDs))
	for rows.Next() {
		var printerID string
		var s domain.InkStock
		if err := rows.Scan(&printerID, &s.Color, &s.Amount); err != nil {
			return nil, err
		}
		out[printerID] = append(out[printerID], s)
	}
	return out, rows.Err()
}

func (r *printerRepository) UpdateStock(ctx context.Context, id string, mutate StockMutation) (*domain.Printer, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var current domain.Printer
	if err := tx.QueryRow(ctx, `
        SELECT id, name, is_colorful, category, department
        FROM printers WHERE id=$1 FOR UPDATE`, id).Scan(
		&current.ID,
		&current.Name,
		&current.IsColorful,
		&current.Category,
		&current.Department,
	); err != nil {
		return nil, err
	}
	stock, err := loadStock(ctx, tx, []string{id})
	if err != nil {
		return nil, err
	}
	current.Stock = stock[id]

	next, history, err := mutate(current)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
        UPDATE printers SET name=$1, department=$2, updated_at=NOW()
        WHERE id=$3`,
		next.Name,
		next.Department,
		current.ID,
	); err != nil {
		return nil, fmt.Errorf("update printer: %w", err)
	}

	batch := &pgx.Batch{}
	for _, s := range next.Stock {
		batch.Queue(`UPDATE printer_ink_stock SET amount=$1 WHERE printer_id=$2 AND color=$3`,
			s.Amount, current.ID, s.Color)
	}
	for _, h := range history {
		batch.Queue(`
            INSERT INTO ink_stock_history (id, printer_id, date, amount, color, delivery_to, type)
            VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			h.ID, h.PrinterID, h.Date, h.Amount, h.Color, h.DeliveryTo, h.Type)
	}
	if err := execBatch(ctx, tx, batch); err != nil {
		return nil, fmt.Errorf("write stock: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &next, nil
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	return results.Close()
}
