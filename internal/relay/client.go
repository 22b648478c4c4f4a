package relay

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Conn is the transport surface the relay needs from a websocket
// connection. gorilla/websocket's *Conn satisfies it; tests use a fake.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one authenticated relay connection.
type Client struct {
	ID     string
	UserID int

	conn Conn
	mu   sync.Mutex
}

// NewClient wraps an authenticated connection.
func NewClient(id string, userID int, conn Conn) *Client {
	return &Client{ID: id, UserID: userID, conn: conn}
}

type outboundEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Send writes one event to the connection. Writes are serialized because
// the websocket allows only one concurrent writer.
func (c *Client) Send(event string, data any) error {
	payload, err := json.Marshal(outboundEnvelope{Event: event, Data: data})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.conn.Close()
}
