package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Time allowed to write a message to the peer.
const writeWait = 5 * time.Second

// client wraps a single websocket connection. All writes go through the
// buffered send channel and a dedicated write pump, so there is never more
// than one writer on the underlying connection.
type client struct {
	id   string
	conn *websocket.Conn

	send   chan Message
	closed chan struct{}
	once   sync.Once
}

func newClient(id string, conn *websocket.Conn, sendBuffer int) *client {
	return &client{
		id:     id,
		conn:   conn,
		send:   make(chan Message, sendBuffer),
		closed: make(chan struct{}),
	}
}

func (c *client) ID() string { return c.id }

// Enqueue queues an outbound message without blocking. A connection whose
// buffer is full is too slow to keep; it gets closed instead of stalling the
// caller or growing without bound.
func (c *client) Enqueue(msg Message) bool {
	select {
	case <-c.closed:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		_ = c.Close()
		return false
	}
}

func (c *client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}

// writePump drains the send channel onto the connection and keeps the peer
// alive with periodic pings. One goroutine per connection.
func (c *client) writePump(pingEvery time.Duration) {
	ticker := time.NewTicker(pingEvery)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}
