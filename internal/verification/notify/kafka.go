// Package notify publishes verification verdicts to Kafka for the resident
// approval workflow.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"idverify/internal/verification/models"
)

const (
	DefaultTopic = "verification.completed"
	eventType    = "verification.completed"
)

// Producer is the subset of *kgo.Client used here.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaNotifier produces one record per verdict, keyed by caller so a
// caller's verdicts stay ordered within a partition.
type KafkaNotifier struct {
	producer Producer
	topic    string
}

type Option func(*KafkaNotifier)

func WithTopic(topic string) Option {
	return func(n *KafkaNotifier) {
		if topic != "" {
			n.topic = topic
		}
	}
}

func NewKafka(producer Producer, opts ...Option) *KafkaNotifier {
	n := &KafkaNotifier{producer: producer, topic: DefaultTopic}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NotifyCompleted blocks until the broker acknowledges the record or ctx ends.
func (n *KafkaNotifier) NotifyCompleted(ctx context.Context, event models.CompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal verification event: %w", err)
	}
	record := &kgo.Record{
		Topic: n.topic,
		Key:   []byte(event.CallerID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "verification_id", Value: []byte(event.VerificationID)},
		},
	}
	if err := n.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce verification event: %w", err)
	}
	return nil
}

// NewClient builds a franz-go producer client for brokers.
func NewClient(brokers []string, clientID string) (*kgo.Client, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}
