package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockProducer(t *testing.T) *mocks.SyncProducer {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	return mocks.NewSyncProducer(t, config)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := newMockProducer(t)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event Event
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.Type != TransactionCreated {
			return errors.Errorf("unexpected event type %q", event.Type)
		}
		return nil
	})

	publisher := NewKafkaPublisherWithProducer(producer)
	err := publisher.Publish(context.Background(), TransactionEventsStream, TransactionCreated, TransactionCreatedEvent{
		TransactionID: "652f1c2a9b1e8a0001a1b2c3",
		UserID:        "alice",
		Amount:        12.5,
		Type:          "expense",
	})
	require.NoError(t, err)
	publisher.Close()
}

func TestKafkaPublisher_PublishFailure(t *testing.T) {
	producer := newMockProducer(t)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewKafkaPublisherWithProducer(producer)
	err := publisher.Publish(context.Background(), TransactionEventsStream, TransactionDeleted, TransactionDeletedEvent{
		TransactionID: "652f1c2a9b1e8a0001a1b2c3",
		UserID:        "alice",
	})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	publisher.Close()
}

func TestNewProducerConfig_BoundsSendLatency(t *testing.T) {
	config := newProducerConfig(2 * time.Second)
	require.NoError(t, config.Validate())

	assert.Equal(t, sarama.WaitForAll, config.Producer.RequiredAcks)
	assert.True(t, config.Producer.Return.Successes)
	assert.Equal(t, 2*time.Second, config.Producer.Timeout)
	assert.Equal(t, 1, config.Producer.Retry.Max)
	assert.Equal(t, 1, config.Metadata.Retry.Max)
	assert.Equal(t, 2*time.Second, config.Metadata.Timeout)
	for _, d := range []time.Duration{config.Net.DialTimeout, config.Net.ReadTimeout, config.Net.WriteTimeout} {
		assert.Equal(t, 2*time.Second, d)
	}
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), TransactionEventsStream, TransactionUpdated, nil))
}
