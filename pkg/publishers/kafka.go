package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaPublisher writes events to a Kafka topic keyed by transaction id, so redeliveries of the
// same transaction land on the same partition.
type kafkaPublisher struct {
	id     string
	topic  string
	writer kafkaWriter
	log    Logger
}

func newKafkaPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Kafka == nil {
		return nil, fmt.Errorf("publisher %q missing kafka configuration", cfg.ID)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("publisher %q has no kafka brokers", cfg.ID)
	}

	return &kafkaPublisher{
		id:    cfg.ID,
		topic: cfg.Kafka.Topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Kafka.Brokers...),
			Topic:                  cfg.Kafka.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: false,
		},
		log: ensureLogger(log),
	}, nil
}

func (k *kafkaPublisher) ID() string   { return k.id }
func (k *kafkaPublisher) Type() string { return TypeKafka }

func (k *kafkaPublisher) Publish(ctx context.Context, evt TransactionEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	attrs := evt.attributes()
	headers := make([]kafka.Header, 0, len(attrs))
	for key, val := range attrs {
		if val == "" {
			continue
		}
		headers = append(headers, kafka.Header{Key: key, Value: []byte(val)})
	}

	key := evt.Event.ETransactionID
	if key == "" {
		key = evt.MessageID
	}

	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   payload,
		Headers: headers,
	}); err != nil {
		k.log.ErrorObj("kafka publisher send failed", "publisher_kafka_error", map[string]any{
			"publisher_id": k.id,
			"topic":        k.topic,
			"message_id":   evt.MessageID,
			"error":        err.Error(),
		})
		return fmt.Errorf("write to kafka: %w", err)
	}
	k.log.DebugObj("kafka publisher delivered event", "publisher_kafka_delivery", map[string]any{
		"publisher_id": k.id,
		"topic":        k.topic,
		"message_id":   evt.MessageID,
	})
	return nil
}

func (k *kafkaPublisher) Close() error {
	return k.writer.Close()
}
