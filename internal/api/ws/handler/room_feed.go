package wsHandler

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"betting-service/domain"
	httpHandler "betting-service/internal/api/http/handler"
	"betting-service/internal/api/ws/hub"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type RoomReader interface {
	GetRoom(ctx context.Context, roomID uint64) (*domain.Room, error)
}

type Hub interface {
	RegisterClient(client *hub.Client)
	UnregisterClient(client *hub.Client)
}

type Message struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content,omitempty"`
	Message string      `json:"message,omitempty"`
	Code    int         `json:"code,omitempty"`
}

type RoomFeedRequest struct{}

// RoomFeedHandler sends the current room state on connect, then relays room
// notices until the client goes away.
type RoomFeedHandler struct {
	hub   Hub
	rooms RoomReader
}

func NewRoomFeedHandler(h Hub, rooms RoomReader) *RoomFeedHandler {
	return &RoomFeedHandler{hub: h, rooms: rooms}
}

func (h *RoomFeedHandler) sendErrorAndClose(conn *websocket.Conn, msg string, code int) {
	if err := conn.WriteJSON(Message{Type: "error", Message: msg, Code: code}); err != nil {
		zap.L().Debug("Failed to send error message to client", zap.Error(err))
	}
	conn.Close()
}

func (h *RoomFeedHandler) HandleWS(c *websocket.Conn, ctx context.Context, _ *RoomFeedRequest) {
	roomID, err := strconv.ParseUint(c.Params("room_id"), 10, 64)
	if err != nil {
		h.sendErrorAndClose(c, "invalid room id", fiber.StatusBadRequest)
		return
	}

	room, err := h.rooms.GetRoom(ctx, roomID)
	if err != nil {
		code := fiber.StatusServiceUnavailable
		if errors.Is(err, domain.ErrNotFound) {
			code = fiber.StatusNotFound
		}
		h.sendErrorAndClose(c, err.Error(), code)
		return
	}
	if err := c.WriteJSON(Message{Type: "room_snapshot", Content: httpHandler.NewRoomView(room)}); err != nil {
		return
	}

	client := hub.NewClient(roomID)
	h.hub.RegisterClient(client)
	go writePump(c, client)
	readPump(c)
	h.hub.UnregisterClient(client)
}

// readPump only watches for the close; the feed is one-way.
func readPump(c *websocket.Conn) {
	c.SetReadLimit(maxMessageSize)
	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.L().Debug("Room feed read ended", zap.Error(err))
			}
			return
		}
	}
}

func writePump(c *websocket.Conn, client *hub.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-client.Send:
			_ = c.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, relay(payload)); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// relay passes valid JSON through and wraps anything else.
func relay(payload []byte) []byte {
	if json.Valid(payload) {
		return payload
	}
	out, _ := json.Marshal(Message{Type: "notice", Content: string(payload)})
	return out
}
