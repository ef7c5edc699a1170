package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// NoopPublisher is a Publisher that does nothing (used when NATS is not configured).
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}

// MemoryPublisher keeps JSON-encoded events in memory.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []Message
}

func (m *MemoryPublisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, Message{Topic: topic, Data: data})
	return nil
}

func (m *MemoryPublisher) Close() error {
	return nil
}

// Messages returns a copy of everything published so far.
func (m *MemoryPublisher) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}

// Topics returns the topic of every published message, in order.
func (m *MemoryPublisher) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.messages))
	for i, msg := range m.messages {
		out[i] = msg.Topic
	}
	return out
}
