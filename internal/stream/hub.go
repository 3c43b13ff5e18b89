package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const broadcastChannel = "gps:broadcast"

// Hub fans live GPS updates out to every connected observer. Publish
// iterates a snapshot of the current set, so registrations during a
// broadcast never corrupt delivery, and a failed client is removed
// without aborting the rest.
type Hub struct {
	id      string
	redis   *redis.Client
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

type Client struct {
	Send chan []byte
}

// envelope wraps the payload on the Redis leg so a node can skip events
// it published itself.
type envelope struct {
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register() *Client {
	client := &Client{
		Send: make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	return client
}

// Unregister removes a client and closes its send channel. Calling it
// again for the same client is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
}

// Publish delivers the payload to every currently registered client. A
// client that cannot take the message (full buffer, dead reader) is
// unregistered; delivery to the others continues and no error reaches
// the caller.
func (h *Hub) Publish(payload []byte) {
	h.deliverLocal(payload)

	if h.redis != nil {
		msg, _ := json.Marshal(envelope{Origin: h.id, Payload: payload})
		if err := h.redis.Publish(context.Background(), broadcastChannel, msg).Err(); err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) deliverLocal(payload []byte) {
	// Sends happen under the read lock and closes under the write lock,
	// so a send can never race a close.
	h.mu.RLock()
	var failed []*Client
	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
			failed = append(failed, client)
		}
	}
	h.mu.RUnlock()

	if len(failed) > 0 {
		h.mu.Lock()
		for _, client := range failed {
			h.removeLocked(client)
		}
		h.mu.Unlock()
	}
}

func (h *Hub) subscribeRedis() {
	pubsub := h.redis.Subscribe(context.Background(), broadcastChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			continue
		}
		if env.Origin == h.id {
			continue
		}
		h.deliverLocal(env.Payload)
	}
}
