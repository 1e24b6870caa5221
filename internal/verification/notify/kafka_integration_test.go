//go:build integration

package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	tcredpanda "github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kgo"

	"idverify/internal/verification/models"
)

type KafkaNotifierSuite struct {
	suite.Suite
	container *tcredpanda.Container
	broker    string
}

func TestKafkaNotifierSuite(t *testing.T) {
	suite.Run(t, new(KafkaNotifierSuite))
}

func (s *KafkaNotifierSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcredpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.2.4",
		tcredpanda.WithAutoCreateTopics(),
	)
	s.Require().NoError(err)
	s.container = container

	broker, err := container.KafkaSeedBroker(ctx)
	s.Require().NoError(err)
	s.broker = broker
}

func (s *KafkaNotifierSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *KafkaNotifierSuite) TestEnsureTopicIsIdempotent() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewClient([]string{s.broker}, "idverify-test")
	s.Require().NoError(err)
	defer client.Close()

	topic := TopicSpec{Name: "verification.idempotent", Partitions: 3}
	s.Require().NoError(EnsureTopic(ctx, client, topic))
	s.Require().NoError(EnsureTopic(ctx, client, topic))
}

func (s *KafkaNotifierSuite) TestNotifyCompletedRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const topic = "verification.roundtrip"
	producer, err := NewClient([]string{s.broker}, "idverify-test")
	s.Require().NoError(err)
	defer producer.Close()
	s.Require().NoError(EnsureTopic(ctx, producer, TopicSpec{Name: topic}))

	event := sampleEvent()
	s.Require().NoError(NewKafka(producer, WithTopic(topic)).NotifyCompleted(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().Len(records, 1)

	s.Equal(event.CallerID, string(records[0].Key))
	var got models.CompletedEvent
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(event.VerificationID, got.VerificationID)
	s.True(got.Accepted)
}
