package queue_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/queue"
)

func TestInMemoryQueuePublishSubscribe(t *testing.T) {
	q := queue.NewInMemoryQueue()
	got := make(chan any, 1)

	q.Subscribe("topic", func(payload any) error {
		got <- payload
		return nil
	})

	if err := q.Publish("topic", "hello"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case p := <-got:
		if p != "hello" {
			t.Errorf("expected hello, got %v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
}

func TestInMemoryQueueNoSubscribers(t *testing.T) {
	q := queue.NewInMemoryQueue()
	if err := q.Publish("empty", "x"); err == nil {
		t.Error("expected error when no subscribers exist")
	}
}

type recordingSyncer struct {
	ch chan string
}

func (r *recordingSyncer) SyncCampaignStatus(campaignID string) error {
	r.ch <- campaignID
	return nil
}

func TestStatusSyncSubscriberHandlesStructPayload(t *testing.T) {
	q := queue.NewInMemoryQueue()
	syncer := &recordingSyncer{ch: make(chan string, 1)}
	queue.StartStatusSyncSubscriber(q, syncer)

	if err := q.Publish(queue.StatusSyncTopic, queue.StatusSyncJob{CampaignID: "camp-1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case id := <-syncer.ch:
		if id != "camp-1" {
			t.Errorf("expected camp-1, got %s", id)
		}
	case <-time.After(time.Second):
		t.Fatal("syncer never ran")
	}
}

func TestStatusSyncSubscriberHandlesJSONPayload(t *testing.T) {
	q := queue.NewInMemoryQueue()
	syncer := &recordingSyncer{ch: make(chan string, 1)}
	queue.StartStatusSyncSubscriber(q, syncer)

	body, _ := json.Marshal(queue.StatusSyncJob{CampaignID: "camp-2"})
	if err := q.Publish(queue.StatusSyncTopic, body); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case id := <-syncer.ch:
		if id != "camp-2" {
			t.Errorf("expected camp-2, got %s", id)
		}
	case <-time.After(time.Second):
		t.Fatal("syncer never ran")
	}
}
