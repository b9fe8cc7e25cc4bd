package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

func sampleOrder() *model.Order {
	sid := uint64(7)
	o := model.NewOrder(3, &sid, "1 Main St", "", []model.OrderItem{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromFloat(10)},
		{ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromFloat(5)},
	})
	o.ID = 42
	return o
}

func TestOrderEventEncoding(t *testing.T) {
	ev := NewOrderCreated(sampleOrder())
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	assert.Equal(t, "order.created", m["type"])
	assert.Equal(t, float64(42), m["order_id"])
	assert.Equal(t, float64(7), m["supplier_id"])
	assert.Equal(t, "25.00", m["total_amount"])
	assert.Equal(t, float64(2), m["item_count"])
	assert.NotContains(t, m, "previous_status")

	changed := NewOrderStatusChanged(sampleOrder(), model.OrderPending)
	assert.Equal(t, OrderStatusChanged, changed.Type)
	assert.Equal(t, model.OrderPending, changed.PreviousStatus)
}

func TestFormatLine(t *testing.T) {
	ev := NewOrderStatusChanged(sampleOrder(), model.OrderPending)
	ev.Status = model.OrderProcessing
	ev.OccurredAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t,
		"[2024-05-01T12:00:00Z] order.status_changed | order_id=42 | user_id=3 | supplier_id=7 | status=processing | previous=pending | total=25.00 | items=2\n",
		FormatLine(ev))

	ev.SupplierID = nil
	assert.Contains(t, FormatLine(ev), "supplier_id=-")
}

func TestHandleMessageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "orders.log")
	c := NewConsumer("", path, nil)

	body, err := json.Marshal(NewOrderCreated(sampleOrder()))
	require.NoError(t, err)
	require.NoError(t, c.HandleMessage(body))
	require.NoError(t, c.HandleMessage(body))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "order.created | order_id=42")
}

func TestHandleMessageRejectsMalformed(t *testing.T) {
	c := NewConsumer("", filepath.Join(t.TempDir(), "orders.log"), nil)
	assert.Error(t, c.HandleMessage([]byte("{not json")))
	assert.Error(t, c.HandleMessage([]byte(`{"type":"order.created"}`)))
}
