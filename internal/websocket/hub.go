package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"task-manager/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one websocket subscriber. Accept, when set, decides which event
// payloads the client receives.
type Client struct {
	Conn   Conn
	Accept func(payload interface{}) bool
	Mu     sync.Mutex
}

func (c *Client) wants(payload interface{}) bool {
	return c.Accept == nil || c.Accept(payload)
}

func (c *Client) send(message []byte) error {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, message)
}

// Message is the envelope written to every client.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type outbound struct {
	raw     []byte
	payload interface{}
}

// Hub owns the connected clients and fans events out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is cancelled, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.Conn.Close()
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			h.remove(client)
		case message := <-h.broadcast:
			for client := range h.clients {
				if !client.wants(message.payload) {
					continue
				}
				if err := client.send(message.raw); err != nil {
					logger.ErrorLogger.Error("Error writing websocket message", zap.Error(err))
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.Conn.Close()
	}
}

// Register and Unregister return immediately once Run has stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Conn.Close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish encodes the event and queues it for broadcast. Events are dropped
// when the queue is full so a slow hub never blocks a request.
func (h *Hub) Publish(event string, payload interface{}) {
	raw, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		logger.ErrorLogger.Error("Error encoding websocket message", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- outbound{raw: raw, payload: payload}:
	default:
		logger.SystemLogger.Warn("Websocket broadcast queue is full, dropping event", zap.String("event", event))
	}
}
