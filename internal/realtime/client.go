package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/anonto42/hackmate/backend/internal/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// inbound is a frame sent by a client.
type inbound struct {
	Event  string          `json:"event"`
	TeamID string          `json:"teamId"`
	Task   json.RawMessage `json:"task,omitempty"`
}

// Client is one websocket connection. Its rooms set is guarded by the hub lock.
type Client struct {
	id    string
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]struct{}
	done  chan struct{}
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:    uuid.New().String(),
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		rooms: make(map[string]struct{}),
		done:  make(chan struct{}),
	}
}

// enqueue hands frame to the writer without blocking.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// ServeWS upgrades the request and runs the connection until it closes.
func (h *Hub) ServeWS(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.WithError(err).Warn("failed to upgrade websocket")
		return nil
	}

	client := newClient(h, conn)
	metrics.RealtimeConnections.Inc()
	h.log.WithField("client_id", client.id).Debug("websocket client connected")

	go client.writePump()
	client.readPump()
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Remove(c)
		close(c.done)
		c.conn.Close()
		metrics.RealtimeConnections.Dec()
		c.hub.log.WithField("client_id", c.id).Debug("websocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg inbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.WithError(err).Debug("websocket read failed")
			}
			return
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg inbound) {
	switch msg.Event {
	case "join-team":
		c.hub.Join(c, msg.TeamID)
	case "leave-team":
		c.hub.Leave(c, msg.TeamID)
	case "task-update":
		if msg.TeamID == "" {
			return
		}
		if err := c.hub.broadcast(msg.TeamID, c.id, EventTaskUpdated, msg.Task); err != nil {
			c.hub.log.WithError(err).Warn("failed to relay task update")
		}
	default:
		c.hub.log.WithFields(logrus.Fields{"client_id": c.id, "event": msg.Event}).Debug("ignoring unknown event")
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
