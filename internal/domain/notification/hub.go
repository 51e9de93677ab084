package notification

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userEventsChannel = "notify:user_events"

type userEventMessage struct {
	UserID           string          `json:"user_id"`
	Payload          json.RawMessage `json:"payload"`
	SenderInstanceID string          `json:"sender_instance_id"`
}

// Connection is one WebSocket client.
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub fans notifications out to connected clients. With Redis configured it
// also relays events to other instances over Pub/Sub.
type Hub struct {
	connections map[uuid.UUID]map[*Connection]bool
	redis       *redis.Client
	pubsub      *redis.PubSub
	mu          sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx        context.Context
	cancel     context.CancelFunc
	instanceID string
}

func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
		instanceID:  uuid.NewString(),
	}
	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, userEventsChannel)
	}
	return h
}

// Run starts the hub loop. Call in a goroutine.
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()
			log.Debug().Str("user_id", conn.UserID.String()).Msg("notification client connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.connections[conn.UserID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
				}
			}
			h.mu.Unlock()
			log.Debug().Str("user_id", conn.UserID.String()).Msg("notification client disconnected")
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}

func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Push delivers a notification to every connection of the user, locally and
// via Redis to other instances.
func (h *Hub) Push(ctx context.Context, n *Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal notification")
		return
	}

	h.sendLocal(n.UserID, payload)

	if h.redis == nil {
		return
	}
	event := userEventMessage{
		UserID:           n.UserID.String(),
		Payload:          payload,
		SenderInstanceID: h.instanceID,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := h.redis.Publish(ctx, userEventsChannel, data).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to publish notification event")
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event userEventMessage
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			if event.SenderInstanceID == h.instanceID {
				continue
			}
			userID, err := uuid.Parse(event.UserID)
			if err != nil {
				continue
			}
			h.sendLocal(userID, []byte(event.Payload))
		}
	}
}

func (h *Hub) sendLocal(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections[userID] {
		select {
		case conn.Send <- payload:
		default:
			log.Warn().Str("user_id", userID.String()).Msg("notification send buffer full")
		}
	}
}
