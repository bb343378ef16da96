// Package live pushes tournament updates to websocket subscribers. Each
// tournament is a room, and every room is owned by the hub's Run loop.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	EventSubscribed     = "subscribed"
	EventBracketUpdated = "bracket_updated"
	EventCompleted      = "tournament_completed"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

type Event struct {
	Type    string `json:"type"`
	Room    string `json:"room"`
	Payload any    `json:"payload,omitempty"`
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}

	rooms    map[string]map[*Client]struct{}
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewHub(logger zerolog.Logger, allowedOrigins []string) *Hub {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		logger:     logger.With().Str("component", "live").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Run owns the room table until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for room, clients := range h.rooms {
				for c := range clients {
					close(c.send)
				}
				delete(h.rooms, room)
			}
			return nil

		case c := <-h.register:
			if h.rooms[c.room] == nil {
				h.rooms[c.room] = make(map[*Client]struct{})
			}
			h.rooms[c.room][c] = struct{}{}
			h.deliver(c, Event{Type: EventSubscribed, Room: c.room})
			h.logger.Debug().Str("room", c.room).Int("clients", len(h.rooms[c.room])).Msg("client subscribed")

		case c := <-h.unregister:
			h.drop(c)

		case ev := <-h.broadcast:
			for c := range h.rooms[ev.Room] {
				h.deliver(c, ev)
			}
		}
	}
}

// Publish queues ev for its room. It gives up when ctx ends or the hub has
// stopped.
func (h *Hub) Publish(ctx context.Context, ev Event) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	case <-ctx.Done():
	}
}

// Serve upgrades the request and subscribes the connection to room.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, room string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &Client{hub: h, conn: conn, room: room, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return nil
	}

	go c.writePump()
	go c.readPump()
	return nil
}

// deliver must only run on the Run goroutine. A client that cannot keep
// up is disconnected.
func (h *Hub) deliver(c *Client, ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("type", ev.Type).Msg("failed to encode event")
		return
	}

	select {
	case c.send <- msg:
	default:
		h.logger.Warn().Str("room", c.room).Msg("client too slow, disconnecting")
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	clients, ok := h.rooms[c.room]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.rooms, c.room)
	}
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	room string
	send chan []byte
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Subscribers only listen. Reading keeps control frames flowing.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug().Err(err).Str("room", c.room).Msg("client read failed")
			}
			return
		}
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
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
