package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Stigz/eigernordvan/internal/trip"
)

// TopicTripLogged receives one message per ledger entry, keyed by user name.
const TopicTripLogged = "trip.logged"

// messageWriter is satisfied by *kafkago.Writer
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher emits ledger entries to Kafka.
type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher returns a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}}
}

// Publish sends the JSON-serialised entry.
func (p *KafkaPublisher) Publish(ctx context.Context, entry trip.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	err = p.w.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(entry.UserName),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", entry.ID, err)
	}
	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error { return p.w.Close() }
