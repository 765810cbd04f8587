package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-manager/internal/domain"
)

// InkStockHistoryRepository reads the ink stock ledger. Entries are written
// through PrinterRepository.UpdateStock.
type InkStockHistoryRepository interface {
	ListByPrinter(ctx context.Context, printerID string) ([]domain.InkStockHistoryEntry, error)
}

type inkStockHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewInkStockHistoryRepository builds repository.
func NewInkStockHistoryRepository(pool *pgxpool.Pool) InkStockHistoryRepository {
	return &inkStockHistoryRepository{pool: pool}
}

func (r *inkStockHistoryRepository) ListByPrinter(ctx context.Context, printerID string) ([]domain.InkStockHistoryEntry, error) {
	const query = `
        SELECT id, printer_id, date, amount, color, delivery_to, type
        FROM ink_stock_history WHERE printer_id=$1 ORDER BY date ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, printerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.InkStockHistoryEntry
	for rows.Next() {
		var entry domain.InkStockHistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.PrinterID,
			&entry.Date,
			&entry.Amount,
			&entry.Color,
			&entry.DeliveryTo,
			&entry.Type,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
