package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/it-manager/internal/domain"
)

const printerListKey = "it-manager:printers:v1"

// PrinterCache keeps the printer list in Redis as JSON.
type PrinterCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewPrinterCache builds a cache; a zero ttl keeps entries until invalidated.
func NewPrinterCache(client redis.Cmdable, ttl time.Duration) *PrinterCache {
	return &PrinterCache{client: client, ttl: ttl}
}

type cachedPrinter struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	IsColorful bool              `json:"isColorful"`
	Category   string            `json:"category"`
	Department string            `json:"department"`
	Stock      []domain.InkStock `json:"stock"`
}

// Get returns the cached list and whether the cache was warm.
func (c *PrinterCache) Get(ctx context.Context) ([]domain.Printer, bool, error) {
	raw, err := c.client.Get(ctx, printerListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get printers: %w", err)
	}
	var cached []cachedPrinter
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("decode printers: %w", err)
	}
	printers := make([]domain.Printer, 0, len(cached))
	for _, p := range cached {
		printers = append(printers, domain.Printer{
			ID:         p.ID,
			Name:       p.Name,
			IsColorful: p.IsColorful,
			Category:   p.Category,
			Department: domain.PrinterDepartment(p.Department),
			Stock:      p.Stock,
		})
	}
	return printers, true, nil
}

// Set replaces the cached list.
func (c *PrinterCache) Set(ctx context.Context, printers []domain.Printer) error {
	cached := make([]cachedPrinter, 0, len(printers))
	for _, p := range printers {
		cached = append(cached, cachedPrinter{
			ID:         p.ID,
			Name:       p.Name,
			IsColorful: p.IsColorful,
			Category:   p.Category,
			Department: string(p.Department),
			Stock:      p.Stock,
		})
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("encode printers: %w", err)
	}
	return c.client.Set(ctx, printerListKey, raw, c.ttl).Err()
}

// Invalidate drops the cached list.
func (c *PrinterCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, printerListKey).Err()
}
