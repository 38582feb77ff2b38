package wshub

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

// ClientMessage is received from clients: a hit on a target, or a pause or
// resume request.
type ClientMessage struct {
	Type     string `json:"t"`
	TargetID string `json:"id,omitempty"`
}

// ServerMessage is sent to clients. State carries a session snapshot.
type ServerMessage struct {
	Type     string `json:"t"`
	TargetID string `json:"id,omitempty"`
	Hit      bool   `json:"hit,omitempty"`
	Error    string `json:"err,omitempty"`
	State    any    `json:"s,omitempty"`
}

// Client represents a single WebSocket connection in the hub. Binary clients
// receive msgpack frames, the rest JSON text frames.
type Client struct {
	ID     string
	Binary bool
	Conn   *websocket.Conn
	Send   chan []byte
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	typ := websocket.MessageText
	if c.Binary {
		typ = websocket.MessageBinary
	}
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, typ, msg); err != nil {
				return
			}
		}
	}
}

// Encode serializes a message in the client's wire format. Msgpack frames
// use the same field names as JSON.
func Encode(msg any, binary bool) ([]byte, error) {
	if !binary {
		return json.Marshal(msg)
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decode(data []byte, binary bool) (ClientMessage, error) {
	var msg ClientMessage
	if !binary {
		err := json.Unmarshal(data, &msg)
		return msg, err
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	err := dec.Decode(&msg)
	return msg, err
}

// Hub manages the WebSocket connections watching one session.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     *logrus.Entry
}

func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients: make(map[string]*Client),
		log:     logger.WithField("component", "wshub"),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.Send)
		delete(h.clients, id)
	}
}

// CloseAll drops every client. Their write pumps return once the Send
// channels are drained.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.Send)
		delete(h.clients, id)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client. Non-blocking: drops if channel full.
func (h *Hub) Broadcast(msg ServerMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	encoded := make(map[bool][]byte, 2)
	for _, c := range h.clients {
		data, ok := encoded[c.Binary]
		if !ok {
			var err error
			data, err = Encode(msg, c.Binary)
			if err != nil {
				h.log.WithError(err).Error("[WSHub] Marshal error")
				return
			}
			encoded[c.Binary] = data
		}
		select {
		case c.Send <- data:
		default:
			// Drop message if channel full
		}
	}
}

// SendTo delivers a message to one client. It reports false if the client
// is gone or its channel is full.
func (h *Hub) SendTo(id string, msg ServerMessage) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[id]
	if !ok {
		return false
	}
	data, err := Encode(msg, c.Binary)
	if err != nil {
		h.log.WithError(err).Error("[WSHub] Marshal error")
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}
