// Package hub fans room notices out to websocket clients. A room channel is
// subscribed while at least one client watches that room.
package hub

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Client struct {
	ID     uuid.UUID
	RoomID uint64
	Send   chan []byte
}

func NewClient(roomID uint64) *Client {
	return &Client{ID: uuid.New(), RoomID: roomID, Send: make(chan []byte, 16)}
}

// Source delivers raw messages for one room until stop is called.
type Source interface {
	Subscribe(ctx context.Context, roomID uint64) (msgs <-chan []byte, stop func())
}

type Hub struct {
	source Source

	// room id -> client id -> client
	rooms map[uint64]map[uuid.UUID]*Client
	stops map[uint64]func()
	mutex sync.RWMutex

	register   chan *Client
	unregister chan *Client
	ctx        context.Context
	// closed once Run has shut the hub down
	done chan struct{}
}

func NewHub(source Source) *Hub {
	return &Hub{
		source:     source,
		rooms:      make(map[uint64]map[uuid.UUID]*Client),
		stops:      make(map[uint64]func()),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        context.Background(),
		done:       make(chan struct{}),
	}
}

// Run processes registrations until ctx is done, then drops every
// subscription.
func (h *Hub) Run(ctx context.Context) {
	h.ctx = ctx
	go func() {
		for {
			select {
			case client := <-h.register:
				h.registerClient(client)
			case client := <-h.unregister:
				h.unregisterClient(client)
			case <-ctx.Done():
				h.shutdown()
				return
			}
		}
	}()
}

// RegisterClient closes client.Send right away when the hub has already shut
// down, so the caller's write loop ends.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		h.unregisterClient(client)
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, ok := h.rooms[client.RoomID]
	if !ok {
		clients = make(map[uuid.UUID]*Client)
		h.rooms[client.RoomID] = clients
	}
	clients[client.ID] = client

	if _, subscribed := h.stops[client.RoomID]; !subscribed {
		h.startSubscriber(client.RoomID)
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, ok := h.rooms[client.RoomID]
	if !ok {
		return
	}
	if _, exists := clients[client.ID]; !exists {
		return
	}
	delete(clients, client.ID)
	close(client.Send)

	if len(clients) == 0 {
		delete(h.rooms, client.RoomID)
		if stop, ok := h.stops[client.RoomID]; ok {
			stop()
			delete(h.stops, client.RoomID)
		}
	}
}

// startSubscriber must be called with the mutex held.
func (h *Hub) startSubscriber(roomID uint64) {
	msgs, stop := h.source.Subscribe(h.ctx, roomID)
	h.stops[roomID] = stop

	go func() {
		for payload := range msgs {
			h.Broadcast(roomID, payload)
		}
		zap.L().Debug("Room feed subscription ended", zap.Uint64("room_id", roomID))
	}()
}

// Broadcast sends payload to every client watching roomID. Clients whose
// buffer is full miss the message.
func (h *Hub) Broadcast(roomID uint64, payload []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, client := range h.rooms[roomID] {
		select {
		case client.Send <- payload:
		default:
			zap.L().Warn("Dropping room message for slow client",
				zap.Uint64("room_id", roomID), zap.String("client", client.ID.String()))
		}
	}
}

func (h *Hub) RoomClientCount(roomID uint64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) shutdown() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for roomID, stop := range h.stops {
		stop()
		delete(h.stops, roomID)
	}
	for roomID, clients := range h.rooms {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.rooms, roomID)
	}
	close(h.done)
}
