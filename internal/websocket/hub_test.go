package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string) *mockClient {
	return &mockClient{
		id:       id,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func waitForMessages(t *testing.T, client *mockClient, want int) [][]byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		msgs := client.GetMessages()
		if len(msgs) >= want {
			return msgs
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %d messages", want)
	return nil
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1")
	client2 := newMockClient("client-2")

	hub.Register(client1)
	hub.Register(client2)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(client2)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1")
	client2 := newMockClient("client-2")
	hub.Register(client1)
	hub.Register(client2)

	hub.Broadcast(ExpenseCreated(map[string]string{"id": "e1"}))

	msgs1 := waitForMessages(t, client1, 1)
	msgs2 := waitForMessages(t, client2, 1)

	var event Event
	require.NoError(t, json.Unmarshal(msgs1[0], &event))
	assert.Equal(t, "expense.created", event.Type)
	assert.Equal(t, EntityTypeExpense, event.Entity)

	require.NoError(t, json.Unmarshal(msgs2[0], &event))
	assert.Equal(t, "expense.created", event.Type)
}

func TestHub_BroadcastSkipsUnregisteredClient(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1")
	client2 := newMockClient("client-2")
	hub.Register(client1)
	hub.Register(client2)
	hub.Unregister(client2)

	hub.Broadcast(ProjectDeleted(map[string]string{"id": "p1"}))

	waitForMessages(t, client1, 1)
	assert.Empty(t, client2.GetMessages())
}

func TestHub_PublishImplementsEventPublisher(t *testing.T) {
	hub := NewHub()
	client := newMockClient("client-1")
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(CategoryCreated(map[string]string{"id": "c1"}))

	msgs := waitForMessages(t, client, 1)

	var event Event
	require.NoError(t, json.Unmarshal(msgs[0], &event))
	assert.Equal(t, "category.created", event.Type)
}
