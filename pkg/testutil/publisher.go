package testutil

import (
	"context"
	"sync"

	"github.com/abi-lab/backend/pkg/pubsub"
)

// MockPublisher records every published message by topic.
type MockPublisher struct {
	PublishFunc func(ctx context.Context, topic string, pack *pubsub.Pack) error

	mutex    sync.Mutex
	messages map[string][]*pubsub.Pack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	m.mutex.Lock()
	if m.messages == nil {
		m.messages = make(map[string][]*pubsub.Pack)
	}
	m.messages[topic] = append(m.messages[topic], pack)
	m.mutex.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

func (m *MockPublisher) Messages(topic string) []*pubsub.Pack {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return append([]*pubsub.Pack(nil), m.messages[topic]...)
}
