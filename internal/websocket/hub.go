package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"ai-crm-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultRedisChannel = "crm_contact_events"

// RemoteHandler runs for every message that another instance published.
type RemoteHandler func(ctx context.Context, message []byte)

type HubOption func(*Hub)

func WithRemoteHandler(fn RemoteHandler) HubOption {
	return func(h *Hub) { h.onRemote = fn }
}

func WithRedisChannel(name string) HubOption {
	return func(h *Hub) { h.channel = name }
}

// Hub fans contact events out to every connected browser and, through
// Redis, to the hubs of other instances.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	rdb        *redis.Client
	channel    string
	instanceID string
	onRemote   RemoteHandler

	logger logger.ILogger
}

type clusterEnvelope struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger, opts ...HubOption) *Hub {
	if log == nil {
		log = logger.NewNopLogger()
	}
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		channel:    DefaultRedisChannel,
		instanceID: uuid.NewString(),
		logger:     log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) InstanceID() string {
	return h.instanceID
}

// Done is closed once Run has returned and every client was released.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	var wg sync.WaitGroup
	if h.rdb != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.subscribeToRedis(ctx)
		}()
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			wg.Wait()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"client_id": client.ID, "clients": total})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Register returns false when the hub is no longer running.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast delivers message to local clients and publishes it for the
// other instances.
func (h *Hub) Broadcast(ctx context.Context, message []byte) {
	h.deliverLocal(message)

	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(clusterEnvelope{Origin: h.instanceID, Message: message})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode cluster message", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := h.rdb.Publish(ctx, h.channel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) deliverLocal(message []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client send buffer full, dropping client", map[string]interface{}{"client_id": client.ID})
		h.remove(client)
	}
}

// remove closes Send exactly once, guarded by map membership.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"client_id": client.ID, "clients": len(h.clients)})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.Send)
		delete(h.clients, client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, h.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleClusterMessage(ctx, []byte(msg.Payload))
		}
	}
}

func (h *Hub) handleClusterMessage(ctx context.Context, raw []byte) {
	var env clusterEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if env.Origin == h.instanceID {
		return
	}

	h.deliverLocal(env.Message)
	if h.onRemote != nil {
		h.onRemote(ctx, env.Message)
	}
}
