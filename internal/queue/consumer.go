package queue

// consumer.go contains the background consumer that listens to the
// domain-event queues and appends structured lines to logs/activity.log.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartActivityConsumer connects to RabbitMQ, declares both event
// queues (durable), and starts consuming messages.  Each message is
// appended to logs/activity.log in a single-line, human-friendly
// format.  The function runs a reconnect loop with exponential backoff
// and keeps running indefinitely; processing errors are logged and the
// offending message rejected so the server continues operating.  It is
// intended to be launched in its own goroutine from main.
func StartActivityConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			slog.Error("activity-consumer: failed to dial broker", "error", err, "retry_in", backoff.String())
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			slog.Error("activity-consumer: consume loop ended, reconnecting", "error", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		slog.Warn("activity-consumer: set QoS failed", "error", err)
	}

	for _, name := range []string{RoutineGeneratedQueue, ProductScannedQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	routineMsgs, err := ch.Consume(RoutineGeneratedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", RoutineGeneratedQueue, err)
	}
	scanMsgs, err := ch.Consume(ProductScannedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", ProductScannedQueue, err)
	}

	for {
		select {
		case d, ok := <-routineMsgs:
			if !ok {
				return errors.New("routine deliveries channel closed")
			}
			handleDelivery(d, formatRoutineGenerated)
		case d, ok := <-scanMsgs:
			if !ok {
				return errors.New("scan deliveries channel closed")
			}
			handleDelivery(d, formatProductScanned)
		}
	}
}

func handleDelivery(d amqp.Delivery, format func([]byte) (string, error)) {
	line, err := format(d.Body)
	if err != nil {
		slog.Error("activity-consumer: handle message failed", "error", err)
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	if err := appendActivity(line); err != nil {
		slog.Error("activity-consumer: write activity log failed", "error", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func formatRoutineGenerated(body []byte) (string, error) {
	var ev RoutineGeneratedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}
	return fmt.Sprintf("[%s] Routine generated | user_id=%d | days=%d | items=%d | skin_type=%s\n",
		ev.GeneratedAt, ev.UserID, ev.Days, ev.Items, ev.SkinType), nil
}

func formatProductScanned(body []byte) (string, error) {
	var ev ProductScannedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}
	return fmt.Sprintf("[%s] Product scanned | user_id=%d | analysis_id=%d | product=%q | verdict=%s\n",
		ev.ScannedAt, ev.UserID, ev.AnalysisID, ev.ProductName, ev.Verdict), nil
}

func appendActivity(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "activity.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
