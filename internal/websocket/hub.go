package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub tracks this process's realtime connections and which broadcast room
// each has joined. It is the delivery end of the event fan-out bridge: the
// events.Subscriber hands every published event to HandleEvent, and the hub
// forwards it to the room's local connections. Delivery to a client is
// at-most-once per event; a reconnecting client re-fetches a snapshot.
type Hub struct {
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	joinRoom   chan *joinRequest

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	stopped  bool
	mu       sync.RWMutex
}

type joinRequest struct {
	client *Client
	room   string
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		joinRoom:   make(chan *joinRequest),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.rooms = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					h.leaveLocked(client)
					client.Close()
				}
			}
			h.mu.Unlock()

		case req := <-h.joinRoom:
			h.mu.Lock()
			if !h.stopped {
				h.leaveLocked(req.client)
				members, ok := h.rooms[req.room]
				if !ok {
					members = make(map[*Client]bool)
					h.rooms[req.room] = members
				}
				members[req.client] = true
				req.client.room = req.room
			}
			h.mu.Unlock()

			if msg, err := NewMessage(MessageTypeJoined, JoinedPayload{Room: req.room}); err == nil {
				req.client.Send(msg)
			}
		}
	}
}

// leaveLocked removes the client from its current room. Caller holds h.mu.
func (h *Hub) leaveLocked(client *Client) {
	if client.room == "" {
		return
	}
	if members, ok := h.rooms[client.room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, client.room)
		}
	}
	client.room = ""
}

// Stop shuts the hub down and blocks until Run has exited. Safe to call
// from multiple goroutines.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stop:
	}
}

// Unregister detaches a client, tolerating a hub that is shutting down.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

// HandleEvent implements events.Handler: forward a bridge event to every
// connection joined to the room. Slow clients are skipped rather than
// blocking delivery to the rest of the room.
func (h *Hub) HandleEvent(room, name string, data []byte) {
	msg, err := NewMessage(MessageTypeEvent, EventPayload{Event: name, Data: data})
	if err != nil {
		log.Printf("hub: failed to build %s event: %v", name, err)
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		client.trySend(payload)
	}
}

// RoomSize returns the number of local connections joined to a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
