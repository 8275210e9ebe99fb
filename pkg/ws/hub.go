// Package ws pushes notifications to connected customers over WebSocket.
//
// The hub tracks connections per customer ID; a customer with the
// notification page open in two tabs receives the push on both.
//
//	hub := ws.NewHub()
//	go hub.Run()
//
//	// in the route handler:
//	ws.Serve(hub, customerID, w, r)
//
//	// from the notification service:
//	hub.Push(customerID, payload)
package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bookhive/bookhive/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST layer already enforces the session cookie before upgrading.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one customer connection.
type client struct {
	hub        *Hub
	customerID uint
	conn       *websocket.Conn
	send       chan []byte
}

// Hub routes pushed payloads to the connections of one customer.
type Hub struct {
	register   chan *client
	unregister chan *client
	push       chan push
	clients    map[uint]map[*client]struct{}
}

type push struct {
	customerID uint
	data       []byte
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		push:       make(chan push, 64),
		clients:    make(map[uint]map[*client]struct{}),
	}
}

// Run owns the client map; all mutation happens on this goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			set, ok := h.clients[c.customerID]
			if !ok {
				set = make(map[*client]struct{})
				h.clients[c.customerID] = set
			}
			set[c] = struct{}{}

		case c := <-h.unregister:
			if set, ok := h.clients[c.customerID]; ok {
				if _, ok := set[c]; ok {
					delete(set, c)
					close(c.send)
					if len(set) == 0 {
						delete(h.clients, c.customerID)
					}
				}
			}

		case p := <-h.push:
			for c := range h.clients[p.customerID] {
				select {
				case c.send <- p.data:
				default:
					// Slow consumer, drop the payload for this connection.
				}
			}
		}
	}
}

// Push sends a JSON payload to every open connection of customerID.
// Customers without an open connection simply miss the live push; the
// notification row is still in their inbox.
func (h *Hub) Push(customerID uint, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("ws: marshal push", "error", err)
		return
	}
	select {
	case h.push <- push{customerID: customerID, data: data}:
	default:
		logger.Warn("ws: push queue full, dropping", "customer_id", customerID)
	}
}

// Serve upgrades the request and attaches the connection to the hub.
func Serve(h *Hub, customerID uint, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("ws: upgrade failed", "error", err)
		return
	}

	c := &client{hub: h, customerID: customerID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound frames; the socket is push-only. It exists to
// process control frames and detect closure.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
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
