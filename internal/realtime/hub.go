// Package realtime delivers team-scoped task events to websocket clients.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/anonto42/hackmate/backend/internal/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Event names emitted to rooms.
const (
	EventTaskCreated = "task-created"
	EventTaskUpdated = "task-updated"
)

// Envelope is the frame written to clients.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Bus carries room broadcasts between server instances.
type Bus interface {
	Publish(room string, payload []byte) error
	Subscribe(deliver func(room string, payload []byte)) error
	Close() error
}

// busMessage is what travels over a Bus. Exclude names the client that
// originated a relay so it does not receive its own update back.
type busMessage struct {
	Exclude string          `json:"exclude,omitempty"`
	Event   string          `json:"event"`
	Frame   json.RawMessage `json:"frame"`
}

// Hub tracks room membership. Delivery is best effort: a client whose send
// queue is full misses the message.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	bus   Bus
	log   *logrus.Entry
}

// NewHub creates an empty Hub that delivers in-process only.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		log:   logrus.WithField("component", "realtime"),
	}
}

// UseBus routes every broadcast through bus so that all instances sharing it
// deliver to their local room members.
func (h *Hub) UseBus(bus Bus) error {
	if err := bus.Subscribe(h.receive); err != nil {
		return errors.Wrap(err, "subscribe to realtime bus")
	}
	h.mu.Lock()
	h.bus = bus
	h.mu.Unlock()
	h.log.Info("Realtime bus attached.")
	return nil
}

// Join adds c to room.
func (h *Hub) Join(c *Client, room string) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

// Leave removes c from room.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

// Remove drops c from every room it joined.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
}

func (h *Hub) leaveLocked(c *Client, room string) {
	delete(c.rooms, room)
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// RoomSize returns the number of local clients in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast sends event with data to every member of room.
func (h *Hub) Broadcast(room, event string, data interface{}) error {
	return h.broadcast(room, "", event, data)
}

func (h *Hub) broadcast(room, exclude, event string, data interface{}) error {
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return errors.Wrap(err, "encode realtime frame")
	}

	h.mu.RLock()
	bus := h.bus
	h.mu.RUnlock()

	if bus == nil {
		h.deliver(room, exclude, event, frame)
		return nil
	}

	payload, err := json.Marshal(busMessage{Exclude: exclude, Event: event, Frame: frame})
	if err != nil {
		return errors.Wrap(err, "encode bus message")
	}
	if err := bus.Publish(room, payload); err != nil {
		return errors.Wrapf(err, "publish to room %s", room)
	}
	return nil
}

func (h *Hub) receive(room string, payload []byte) {
	var msg busMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		h.log.WithError(err).WithField("room", room).Warn("discarding malformed bus message")
		return
	}
	h.deliver(room, msg.Exclude, msg.Event, msg.Frame)
}

func (h *Hub) deliver(room, exclude, event string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		if exclude != "" && c.id == exclude {
			continue
		}
		if c.enqueue(frame) {
			metrics.RealtimeBroadcastsTotal.WithLabelValues(event, "delivered").Inc()
			continue
		}
		metrics.RealtimeBroadcastsTotal.WithLabelValues(event, "dropped").Inc()
		h.log.WithFields(logrus.Fields{"room": room, "client_id": c.id}).Debug("client send queue full, dropping frame")
	}
}
