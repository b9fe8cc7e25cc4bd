package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer reads order events and appends one line per event to LogPath.
type Consumer struct {
	URL     string
	LogPath string
	Log     *zap.Logger
}

func NewConsumer(url, logPath string, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{URL: url, LogPath: logPath, Log: log.Named("order-consumer")}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff (capped at 30s) whenever the
// connection drops.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
		c.Log.Info("connected", zap.String("queue", OrderEventsQueue))

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warn("consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("set qos failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(OrderEventsQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(OrderEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.HandleMessage(d.Body); err != nil {
				c.Log.Error("handle message failed", zap.Error(err))
				// no requeue: a bad payload would loop forever
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event and appends it to the log file.
func (c *Consumer) HandleMessage(body []byte) error {
	var ev OrderEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.OrderID == 0 {
		return errors.New("event missing type or order id")
	}
	if dir := filepath.Dir(c.LogPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as a single human-readable log line.
func FormatLine(ev OrderEvent) string {
	supplier := "-"
	if ev.SupplierID != nil {
		supplier = fmt.Sprint(*ev.SupplierID)
	}
	line := fmt.Sprintf("[%s] %s | order_id=%d | user_id=%d | supplier_id=%s | status=%s",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.OrderID, ev.UserID, supplier, ev.Status)
	if ev.PreviousStatus != "" {
		line += fmt.Sprintf(" | previous=%s", ev.PreviousStatus)
	}
	return line + fmt.Sprintf(" | total=%s | items=%d\n", ev.TotalAmount, ev.ItemCount)
}
