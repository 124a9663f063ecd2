package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/rl1809/brewery/internal/core/domain"
)

const eventTypeHeader = "event-type"

// Producer is the part of *kgo.Client the publisher uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Ping(ctx context.Context) error
}

type KafkaPublisher struct {
	client Producer
	topic  string
}

func NewKafkaPublisher(client Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{client: client, topic: topic}
}

// Publish produces the event keyed by beer id so every change to one
// beer lands on the same partition in order.
func (k *KafkaPublisher) Publish(ctx context.Context, event domain.BeerEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal beer event: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.BeerID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: eventTypeHeader, Value: []byte(event.Type)},
		},
	}

	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce beer event: %w", err)
	}
	return nil
}

func (k *KafkaPublisher) Ping(ctx context.Context) error {
	return k.client.Ping(ctx)
}
