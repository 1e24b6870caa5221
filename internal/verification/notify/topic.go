package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// TopicSpec describes the verdict topic created on startup.
type TopicSpec struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
}

// EnsureTopic creates the topic if it does not exist yet. An existing topic
// is left untouched, whatever its partition count.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic TopicSpec) error {
	if topic.Name == "" {
		topic.Name = DefaultTopic
	}
	if topic.Partitions <= 0 {
		topic.Partitions = 1
	}
	if topic.ReplicationFactor <= 0 {
		topic.ReplicationFactor = 1
	}

	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, topic.Partitions, topic.ReplicationFactor, nil, topic.Name)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic.Name, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}
