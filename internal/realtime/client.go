package realtime

import (
	"sync"

	"github.com/google/uuid"
)

const DefaultSendBuffer = 64

type enqueueResult int

const (
	enqueued enqueueResult = iota
	queueFull
	clientClosed
)

// Message is one relayed frame. Data is forwarded untouched and Binary keeps
// the frame type the sender used.
type Message struct {
	Binary bool
	Data   []byte
}

// Client is one realtime connection as seen by the hub: an id used for
// logging and a bounded outbound queue. When the queue is full new messages
// are dropped (drop newest).
type Client struct {
	id   string
	send chan Message

	mu     sync.RWMutex
	closed bool
}

func NewClient(sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	return &Client{
		id:   uuid.NewString(),
		send: make(chan Message, sendBuffer),
	}
}

func (c *Client) ID() string { return c.id }

// Outbound yields queued messages; it is closed once the client is closed.
func (c *Client) Outbound() <-chan Message { return c.send }

// Open reports whether the client still accepts messages.
func (c *Client) Open() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

func (c *Client) enqueue(msg Message) enqueueResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return clientClosed
	}
	select {
	case c.send <- msg:
		return enqueued
	default:
		return queueFull
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
