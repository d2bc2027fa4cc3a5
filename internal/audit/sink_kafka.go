package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Topic carrying the audit trail when Kafka is configured.
const Topic = "geomark.audit"

// KafkaSink forwards audit events to Kafka as JSON. Kafka is then the source
// of truth for the trail; downstream consumers own retention.
type KafkaSink struct {
	client *kgo.Client
}

// NewKafkaSink connects a producer to the comma-separated broker list.
func NewKafkaSink(brokers string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(brokers, ",")...),
		kgo.DefaultProduceTopic(Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaSink{client: client}, nil
}

// Append produces the event synchronously; the worker already decouples this
// from request handling, so a blocking produce here is fine.
func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{Key: []byte(event.Action), Value: payload}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes and shuts down the producer.
func (s *KafkaSink) Close() {
	s.client.Close()
}
