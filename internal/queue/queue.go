package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// StatusSyncTopic carries campaign ids whose aggregate status should be
// re-derived after a message-log transition.
const StatusSyncTopic = "campaign_status_sync"

// StatusSyncJob is the payload published on StatusSyncTopic.
type StatusSyncJob struct {
	CampaignID string `json:"campaign_id"`
}

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// ====================== In-memory ======================

// InMemoryQueue is the no-broker fallback: handlers run in-process with the
// same at-least-once retry behavior the AMQP consumer has.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("⚠️ Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("⚠️ Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// ====================== AMQP ======================

// AMQPQueue publishes JSON-encoded payloads to durable queues. Consumption
// happens out of process (cmd/worker).
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPQueue(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &AMQPQueue{conn: conn, ch: ch}, nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	if _, err := q.ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return q.ch.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Subscribe is not supported on the publisher side; the worker consumes
// directly from the channel.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	msgs, err := q.ch.Consume(topic, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				d.Nack(false, true)
				continue
			}
			d.Ack(false)
		}
	}()
	return nil
}

func (q *AMQPQueue) Close() error {
	q.ch.Close()
	return q.conn.Close()
}

var _ Queue = (*InMemoryQueue)(nil)
var _ Queue = (*AMQPQueue)(nil)

// ====================== Status-sync subscriber ======================

// StatusSyncer re-derives and materializes one campaign's aggregate status.
type StatusSyncer interface {
	SyncCampaignStatus(campaignID string) error
}

// StartStatusSyncSubscriber wires the status-sync topic to the syncer. Used
// with the in-memory queue when no broker is configured.
func StartStatusSyncSubscriber(q Queue, syncer StatusSyncer) {
	err := q.Subscribe(StatusSyncTopic, func(payload any) error {
		var campaignID string
		switch v := payload.(type) {
		case StatusSyncJob:
			campaignID = v.CampaignID
		case []byte:
			var job StatusSyncJob
			if err := json.Unmarshal(v, &job); err != nil {
				log.Println("⚠️ Invalid status sync payload:", err)
				return nil // no retry
			}
			campaignID = job.CampaignID
		default:
			log.Printf("⚠️ Invalid status sync payload type %T\n", payload)
			return nil
		}

		if err := syncer.SyncCampaignStatus(campaignID); err != nil {
			log.Println("⚠️ Failed to sync campaign status:", err)
			return err // triggers retry
		}
		return nil
	})
	if err != nil {
		log.Println("⚠️ Failed to start subscriber for", StatusSyncTopic, ":", err)
	}
}
