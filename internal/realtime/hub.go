package realtime

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

const (
	DropReasonClosed    = "closed"
	DropReasonQueueFull = "queue_full"
)

// Recorder receives hub events for metrics.
type Recorder interface {
	ConnectionOpened()
	ConnectionClosed()
	MessageReceived()
	MessageQueued()
	MessageDropped(reason string)
}

type nopRecorder struct{}

func (nopRecorder) ConnectionOpened()     {}
func (nopRecorder) ConnectionClosed()     {}
func (nopRecorder) MessageReceived()      {}
func (nopRecorder) MessageQueued()        {}
func (nopRecorder) MessageDropped(string) {}

// Hub relays every inbound message to all other connected clients.
// Delivery is best effort: a closed client or a full outbound queue drops
// the message for that client only.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	logger   *log.Entry
	recorder Recorder
}

func NewHub(logger *log.Entry, recorder Recorder) *Hub {
	if logger == nil {
		logger = log.WithField("component", "realtime")
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Hub{
		clients:  map[*Client]struct{}{},
		logger:   logger,
		recorder: recorder,
	}
}

func (h *Hub) OnConnect(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	h.recorder.ConnectionOpened()
	h.logger.WithFields(log.Fields{"conn_id": c.ID(), "connections": total}).Info("connection opened")
}

// OnMessage queues msg to every open client except sender and returns how
// many clients it was queued to. A nil sender relays to everyone.
func (h *Hub) OnMessage(sender *Client, msg Message) int {
	h.recorder.MessageReceived()

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c != sender {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	queued := 0
	for _, c := range targets {
		switch c.enqueue(msg) {
		case enqueued:
			queued++
			h.recorder.MessageQueued()
		case queueFull:
			h.recorder.MessageDropped(DropReasonQueueFull)
			h.logger.WithField("conn_id", c.ID()).Debug("outbound queue full, message dropped")
		case clientClosed:
			h.recorder.MessageDropped(DropReasonClosed)
		}
	}
	fields := log.Fields{"bytes": len(msg.Data), "binary": msg.Binary, "queued": queued}
	if sender != nil {
		fields["conn_id"] = sender.ID()
	}
	h.logger.WithFields(fields).Debug("message relayed")
	return queued
}

// OnClose removes c from the hub and closes its outbound queue. Calling it
// for a client that is already gone is a no-op.
func (h *Hub) OnClose(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	total := len(h.clients)
	h.mu.Unlock()

	c.close()
	if !ok {
		return
	}
	h.recorder.ConnectionClosed()
	h.logger.WithFields(log.Fields{"conn_id": c.ID(), "connections": total}).Info("connection closed")
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
