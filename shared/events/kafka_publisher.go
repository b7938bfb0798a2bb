package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eaglebank/ledger-service/shared/logger"
)

// KafkaPublisher sends events to Kafka; the stream name is used as the topic
// and the event type as the message key.
type KafkaPublisher struct {
	producer sarama.SyncProducer
}

// NewKafkaPublisher dials brokers with a producer that waits for all in-sync
// replicas to acknowledge. Publishing runs inside the request path, so a
// single send is bounded by roughly twice timeout however the brokers behave.
func NewKafkaPublisher(brokers []string, timeout time.Duration) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, newProducerConfig(timeout))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create kafka producer")
	}
	return NewKafkaPublisherWithProducer(producer), nil
}

func newProducerConfig(timeout time.Duration) *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true

	config.Producer.Timeout = timeout
	config.Producer.Retry.Max = 1
	config.Producer.Retry.Backoff = 100 * time.Millisecond
	config.Net.DialTimeout = timeout
	config.Net.ReadTimeout = timeout
	config.Net.WriteTimeout = timeout
	config.Metadata.Retry.Max = 1
	config.Metadata.Retry.Backoff = 100 * time.Millisecond
	config.Metadata.Timeout = timeout
	return config
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(_ context.Context, stream, eventType string, data any) error {
	eventJSON, err := json.Marshal(newEvent(eventType, data))
	if err != nil {
		return errors.Wrap(err, "failed to marshal event")
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: stream,
		Key:   sarama.StringEncoder(eventType),
		Value: sarama.ByteEncoder(eventJSON),
	})
	if err != nil {
		return errors.Wrap(err, "failed to publish event")
	}
	return nil
}

func (p *KafkaPublisher) Close() {
	if err := p.producer.Close(); err != nil {
		logger.Error("failed to close kafka producer", zap.Error(err))
	}
}
