package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/quizdash/quizdash/internal/domain"
)

// Client is one admitted WebSocket connection. Frames are written through a
// buffered channel by WritePump; the engine never blocks on a slow client.
type Client struct {
	conn     *connWrapper
	id       string
	identity *domain.Identity

	send      chan *Envelope
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, id string, identity *domain.Identity, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Client{
		conn:     newConnWrapper(conn),
		id:       id,
		identity: identity,
		send:     make(chan *Envelope, sendBuffer),
		done:     make(chan struct{}),
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) Identity() *domain.Identity {
	return c.identity
}

// Send queues a frame for delivery. Frames to a closed client are dropped,
// as are frames to one whose buffer is full; a room never blocks on a
// single connection.
func (c *Client) Send(msg *Envelope) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		log.Printf("ws send buffer full, dropping %s frame (client %s)", msg.Type, c.id)
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *Client) WritePump() {
	defer c.Close()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error (client %s): %v", c.id, err)
				return
			}
		}
	}
}

// ReadPump decodes frames and hands them to the dispatcher. It returns when
// the connection drops; onClose always runs exactly once afterwards.
func (c *Client) ReadPump(handle func(env RawEnvelope), onClose func()) {
	defer func() {
		onClose()
		c.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (client %s): %v", c.id, err)
			}
			return
		}

		var env RawEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.Send(NewError("Invalid message format"))
			continue
		}

		handle(env)
	}
}
