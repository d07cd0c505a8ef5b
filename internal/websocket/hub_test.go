package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fakeClient(hub *Hub, buffer int) *Client {
	return &Client{ID: uuid.New(), Hub: hub, Send: make(chan []byte, buffer)}
}

func startHub(t *testing.T, opts ...HubOption) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil, nil, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})
	return hub, cancel
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub, _ := startHub(t)
	a, b := fakeClient(hub, 4), fakeClient(hub, 4)
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(context.Background(), []byte(`{"type":"contact_event"}`))

	assert.Equal(t, `{"type":"contact_event"}`, string(<-a.Send))
	assert.Equal(t, `{"type":"contact_event"}`, string(<-b.Send))
}

func TestUnregisterClosesSendOnce(t *testing.T) {
	hub, _ := startHub(t)
	c := fakeClient(hub, 1)
	require.True(t, hub.Register(c))

	hub.Unregister(c)
	hub.Unregister(c)

	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestSlowClientIsDropped(t *testing.T) {
	hub, _ := startHub(t)
	slow := fakeClient(hub, 1)
	require.True(t, hub.Register(slow))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(context.Background(), []byte("1"))
	hub.Broadcast(context.Background(), []byte("2"))

	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, "1", string(<-slow.Send))
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestStoppedHubRejectsClients(t *testing.T) {
	hub := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := fakeClient(hub, 1)
	require.True(t, hub.Register(c))
	cancel()
	<-hub.Done()

	_, open := <-c.Send
	assert.False(t, open)
	assert.False(t, hub.Register(fakeClient(hub, 1)))
}

func TestClusterMessages(t *testing.T) {
	var remote [][]byte
	hub, _ := startHub(t, WithRemoteHandler(func(ctx context.Context, message []byte) {
		remote = append(remote, message)
	}))
	c := fakeClient(hub, 4)
	require.True(t, hub.Register(c))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	own, err := json.Marshal(clusterEnvelope{Origin: hub.InstanceID(), Message: json.RawMessage(`{"n":1}`)})
	require.NoError(t, err)
	hub.handleClusterMessage(context.Background(), own)
	assert.Empty(t, remote)
	assert.Len(t, c.Send, 0)

	other, err := json.Marshal(clusterEnvelope{Origin: "other-instance", Message: json.RawMessage(`{"n":2}`)})
	require.NoError(t, err)
	hub.handleClusterMessage(context.Background(), other)
	require.Len(t, remote, 1)
	assert.JSONEq(t, `{"n":2}`, string(remote[0]))
	assert.JSONEq(t, `{"n":2}`, string(<-c.Send))

	hub.handleClusterMessage(context.Background(), []byte("garbage"))
	assert.Len(t, remote, 1)
}
