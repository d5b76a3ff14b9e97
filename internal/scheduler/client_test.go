package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "deliveries" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestEnqueueQuoteDelivery(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer client.Close()

	err = client.EnqueueQuoteDelivery(context.Background(), uuid.New(), "+966501234567")
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if len(mr.Keys()) == 0 {
		t.Fatal("expected task data in redis after enqueue")
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error when redis url is missing")
	}
}

func TestQuoteDeliverPayloadRoundTrip(t *testing.T) {
	id := uuid.New().String()
	task, err := NewQuoteDeliverTask(QuoteDeliverPayload{QuoteID: id, SentTo: "+966501234567"})
	if err != nil {
		t.Fatalf("failed to build task: %v", err)
	}
	if task.Type() != TaskQuoteDeliver {
		t.Fatalf("unexpected task type %s", task.Type())
	}

	payload, err := ParseQuoteDeliverPayload(task)
	if err != nil {
		t.Fatalf("failed to parse payload: %v", err)
	}
	if payload.QuoteID != id || payload.SentTo != "+966501234567" {
		t.Fatalf("payload mismatch: %+v", payload)
	}
}
