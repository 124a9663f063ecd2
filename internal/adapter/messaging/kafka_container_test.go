//go:build testcontainers

package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/rl1809/brewery/internal/core/domain"
)

func TestKafkaPublisher_Redpanda(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "docker.redpanda.com/redpandadata/redpanda:v24.2.7",
			Cmd: []string{
				"redpanda", "start", "--mode", "dev-container", "--smp", "1",
				"--kafka-addr", "0.0.0.0:9092",
				"--advertise-kafka-addr", "localhost:9092",
			},
			ExposedPorts: []string{"9092:9092/tcp"},
			WaitingFor:   wait.ForLog("Successfully started Redpanda!").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redpanda container: %v", err)
		}
	})

	brokers := []string{"localhost:9092"}

	producer, err := kgo.NewClient(kgo.SeedBrokers(brokers...), kgo.AllowAutoTopicCreation())
	require.NoError(t, err)
	defer producer.Close()

	pub := NewKafkaPublisher(producer, testTopic)
	require.NoError(t, pub.Ping(ctx))

	beerID := uuid.New()
	events := []domain.BeerEvent{
		{Type: domain.BeerEventCreated, BeerID: beerID, Version: 1, OccurredAt: time.Now().UTC()},
		{Type: domain.BeerEventUpdated, BeerID: beerID, OccurredAt: time.Now().UTC()},
	}
	for _, ev := range events {
		require.NoError(t, pub.Publish(ctx, ev))
	}

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(testTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	var records []*kgo.Record
	for len(records) < len(events) {
		fetches := consumer.PollFetches(ctx)
		require.NoError(t, ctx.Err(), "timed out waiting for records")
		records = append(records, fetches.Records()...)
	}

	for i, rec := range records {
		assertRecord(t, events[i], rec)
	}
}
