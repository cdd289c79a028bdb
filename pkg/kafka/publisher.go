package kafka

import (
	"context"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/abi-lab/backend/pkg/pubsub"
)

const (
	headerContentType = "content-type"
	headerProducer    = "producer"
)

// publisher sends community events synchronously. Events of the same
// aggregate share a key, so they land on one partition in order.
type publisher struct {
	clientID string
	producer sarama.SyncProducer
}

func NewPublisher(clientID string, brokerAddrs []string) (*publisher, error) {
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Version = sarama.V2_1_0_0
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Idempotent = true
	config.Producer.Retry.Max = 5
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokerAddrs, config)
	if err != nil {
		return nil, fmt.Errorf("cannot create producer: %w", err)
	}

	return NewPublisherWithProducer(clientID, producer), nil
}

func NewPublisherWithProducer(clientID string, producer sarama.SyncProducer) *publisher {
	return &publisher{clientID: clientID, producer: producer}
}

// Stop flushes and closes the producer.
func (p *publisher) Stop(context.Context) error {
	return p.producer.Close()
}

func (p *publisher) Publish(_ context.Context, topic string, pack *pubsub.Pack) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(pack.Msg),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerContentType), Value: []byte("application/json")},
			{Key: []byte(headerProducer), Value: []byte(p.clientID)},
		},
	}

	// Without a key the partitioner spreads messages.
	if len(pack.Key) > 0 {
		msg.Key = sarama.ByteEncoder(pack.Key)
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("cannot send message to %s: %w", topic, err)
	}

	return nil
}
