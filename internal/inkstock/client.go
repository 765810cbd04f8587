// Package inkstock is the client side of the printer ink API: an HTTP client
// and a Store that keeps the selected printer, its ledger and its alerts.
package inkstock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-manager/internal/api/dto"
)

// StatusError reports a response other than the one an endpoint promises.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Client talks to the ink stock REST endpoints.
type Client struct {
	baseURL string
	timeout time.Duration
	token   string
	http    *fiber.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBearerToken sends the token on every request.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http: &fiber.Client{
			UserAgent:   "inkctl",
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListPrinters calls GET /printers.
func (c *Client) ListPrinters(ctx context.Context) ([]dto.PrinterPayload, error) {
	var printers []dto.PrinterPayload
	if err := c.do(ctx, c.http.Get(c.baseURL+"/printers"), fiber.MethodGet, "/printers", nil, &printers); err != nil {
		return nil, err
	}
	return printers, nil
}

// UpdatePrinter calls PUT /printers/:id with the full printer. Only a 200 counts as success.
func (c *Client) UpdatePrinter(ctx context.Context, printer dto.PrinterPayload) (*dto.PrinterPayload, error) {
	path := "/printers/" + url.PathEscape(printer.ID)
	var stored dto.PrinterPayload
	if err := c.do(ctx, c.http.Put(c.baseURL+path), fiber.MethodPut, path, printer, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListInkStockHistory calls GET /ink-stock-history?printer_id=.
func (c *Client) ListInkStockHistory(ctx context.Context, printerID string) ([]dto.InkStockHistoryResponse, error) {
	path := "/ink-stock-history?printer_id=" + url.QueryEscape(printerID)
	var entries []dto.InkStockHistoryResponse
	if err := c.do(ctx, c.http.Get(c.baseURL+path), fiber.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// do sends the request and decodes a 200 body into out. The agent is released by Bytes.
func (c *Client) do(ctx context.Context, agent *fiber.Agent, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return err
	}
	if timeout := c.requestTimeout(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}
	if c.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		agent.JSON(body)
	}

	status, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	if status != fiber.StatusOK {
		return &StatusError{Method: method, Path: path, Status: status, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// requestTimeout is the configured timeout, shortened to the context deadline when one is set.
func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}
