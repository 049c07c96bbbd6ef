package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartLifecycleConsumer connects to RabbitMQ, declares both status
// queues, and appends every event to logs/lifecycle.log in a
// single-line format. It runs a reconnect loop with capped backoff
// and keeps running through processing errors, rejecting the
// offending message so the server continues operating.
func StartLifecycleConsumer() error {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("lifecycle-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Printf("lifecycle-consumer: consume loop ended: %v; reconnecting", err)
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
		log.Printf("lifecycle-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{BookingStatusQueue, HiringStatusQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	bookings, err := ch.Consume(BookingStatusQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", BookingStatusQueue, err)
	}
	hirings, err := ch.Consume(HiringStatusQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", HiringStatusQueue, err)
	}

	for {
		var d amqp.Delivery
		var ok bool
		select {
		case d, ok = <-bookings:
		case d, ok = <-hirings:
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := handleMessage(d.Body); err != nil {
			log.Printf("lifecycle-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // do not requeue, avoids tight loops
			continue
		}
		_ = d.Ack(false)
	}
}

func handleMessage(body []byte) error {
	var ev LifecycleEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "lifecycle.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	from := ev.FromStatus
	if from == "" {
		from = "-"
	}
	line := fmt.Sprintf("[%s] %s status | record_id=%d | subject_id=%d | actor_id=%d | %s -> %s | %s..%s | amount=%.2f\n",
		ev.OccurredAt, ev.Kind, ev.RecordID, ev.SubjectID, ev.ActorID, from, ev.ToStatus, ev.StartDate, ev.EndDate, ev.Amount)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
