package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/abi-lab/backend/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

func Test_publisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "community.question_created" {
			return errors.New("unexpected topic " + msg.Topic)
		}

		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}

		if string(key) != "question1" {
			return errors.New("unexpected key " + string(key))
		}

		for _, h := range msg.Headers {
			if string(h.Key) == headerProducer && string(h.Value) == "test" {
				return nil
			}
		}

		return errors.New("missing producer header")
	})
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Key != nil {
			return errors.New("expected no key")
		}

		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewPublisherWithProducer("test", producer)
	ctx := context.Background()

	err := p.Publish(ctx, "community.question_created", &pubsub.Pack{
		Key: []byte("question1"),
		Msg: []byte(`{"questionId":"question1"}`),
	})
	require.NoError(t, err)

	err = p.Publish(ctx, "community.badge_awarded", &pubsub.Pack{Msg: []byte(`{}`)})
	require.NoError(t, err)

	err = p.Publish(ctx, "community.question_created", &pubsub.Pack{Key: []byte("question2")})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, p.Stop(ctx))
}
