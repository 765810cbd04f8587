package domain

import "time"

// InkMovement is the direction of a stock change.
type InkMovement string

const (
	InkMovementIncome  InkMovement = "income"
	InkMovementOutcome InkMovement = "outcome"
)

// InkStockHistoryEntry is an append-only ledger line for a printer's ink stock.
type InkStockHistoryEntry struct {
	ID         string
	PrinterID  string
	Date       time.Time
	Amount     int
	Color      InkColor
	DeliveryTo *string
	Type       InkMovement
}

// HistoryFromChange turns a signed stock change into a ledger entry.
// Income entries never carry a delivery target.
func HistoryFromChange(id, printerID string, change StockChange, deliveryTo *string, at time.Time) InkStockHistoryEntry {
	entry := InkStockHistoryEntry{
		ID:        id,
		PrinterID: printerID,
		Date:      at,
		Color:     change.Color,
	}
	if change.Delta > 0 {
		entry.Type = InkMovementIncome
		entry.Amount = change.Delta
		return entry
	}
	entry.Type = InkMovementOutcome
	entry.Amount = -change.Delta
	entry.DeliveryTo = deliveryTo
	return entry
}
