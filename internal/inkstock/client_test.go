package inkstock

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/it-manager/internal/api/dto"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second, WithBearerToken("tkn"))
}

func TestClientListPrinters(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/printers", r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"p1","name":"HP","isColorful":false,"category":"printer","department":"rh","stock":[{"color":"black","amount":4}]}]`)
	})

	printers, err := client.ListPrinters(context.Background())
	require.NoError(t, err)
	require.Len(t, printers, 1)
	assert.Equal(t, "p1", printers[0].ID)
	assert.Equal(t, []dto.InkStockPayload{{Color: "black", Amount: 4}}, printers[0].Stock)
}

func TestClientUpdatePrinter(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/printers/p1", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var body dto.PrinterPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 5, body.Stock[0].Amount)
		require.NotNil(t, body.DeliveryTo)
		assert.Equal(t, "RH", *body.DeliveryTo)

		body.DeliveryTo = nil
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})

	to := "RH"
	stored, err := client.UpdatePrinter(context.Background(), dto.PrinterPayload{
		ID:         "p1",
		Stock:      []dto.InkStockPayload{{Color: "black", Amount: 5}},
		DeliveryTo: &to,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Stock[0].Amount)
	assert.Nil(t, stored.DeliveryTo)
}

func TestClientRejectsNon200(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":"VALIDATION_FAILED"}}`)
	})

	_, err := client.UpdatePrinter(context.Background(), dto.PrinterPayload{ID: "p1"})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Status)
	assert.Contains(t, statusErr.Body, "VALIDATION_FAILED")
}

func TestClientListInkStockHistory(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ink-stock-history", r.URL.Path)
		assert.Equal(t, "p 1", r.URL.Query().Get("printer_id"))
		_, _ = io.WriteString(w, `[{"id":"1","date":"2025-03-10T12:00:00Z","amount":1,"color":"black","deliveryTo":"RH","type":"outcome","printer_id":"p 1"}]`)
	})

	entries, err := client.ListInkStockHistory(context.Background(), "p 1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "outcome", entries[0].Type)
	require.NotNil(t, entries[0].DeliveryTo)
	assert.Equal(t, "RH", *entries[0].DeliveryTo)
}

func TestClientHonorsCancelledContext(t *testing.T) {
	called := false
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListPrinters(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
