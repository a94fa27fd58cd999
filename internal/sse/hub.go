package sse

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event is one message on a client's stream
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`

	userID string // empty addresses every client
}

// Client is one open stream. It only receives events addressed to its
// user, plus events addressed to nobody in particular.
type Client struct {
	ID           string
	UserID       string
	EventChannel chan Event
	EventFilter  map[string]bool // nil means all types

	dropped atomic.Int64
}

// Dropped returns how many events were skipped because the client lagged
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

func (c *Client) accepts(eventType string) bool {
	return c.EventFilter == nil || c.EventFilter[eventType]
}

func (c *Client) offer(e Event) {
	select {
	case c.EventChannel <- e:
	default:
		c.dropped.Add(1)
	}
}

// Hub fans events out to connected clients. Delivery and removal run on
// a single goroutine; registration happens under mu so it cannot race Stop.
type Hub struct {
	byID    map[string]*Client
	byUser  map[string]map[string]*Client
	stopped bool
	mu      sync.RWMutex

	broadcast  chan Event
	unregister chan string

	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewHub creates a hub. Call Start before registering clients.
func NewHub() *Hub {
	return &Hub{
		byID:       make(map[string]*Client),
		byUser:     make(map[string]map[string]*Client),
		broadcast:  make(chan Event, BroadcastBufferSize),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
	}
}

// Start runs the delivery loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the delivery loop and closes every client channel
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		defer h.mu.Unlock()
		h.stopped = true
		for _, c := range h.byID {
			close(c.EventChannel)
		}
		h.byID = make(map[string]*Client)
		h.byUser = make(map[string]map[string]*Client)
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case id := <-h.unregister:
			h.remove(id)
		case e := <-h.broadcast:
			h.deliver(e)
		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) add(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return false
	}
	h.byID[c.ID] = c
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[string]*Client)
	}
	h.byUser[c.UserID][c.ID] = c
	return true
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.byID[id]
	if !ok {
		return
	}
	close(c.EventChannel)
	delete(h.byID, id)

	peers := h.byUser[c.UserID]
	delete(peers, id)
	if len(peers) == 0 {
		delete(h.byUser, c.UserID)
	}
}

// deliver never blocks: a full client channel drops the event for that client
func (h *Hub) deliver(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := h.byUser[e.userID]
	if e.userID == "" {
		targets = h.byID
	}
	for _, c := range targets {
		if c.accepts(e.Type) {
			c.offer(e)
		}
	}
}

// Register adds a client for userID. An empty eventTypes list subscribes
// to every type. After Stop the returned client's channel is already closed.
func (h *Hub) Register(userID string, eventTypes []string) *Client {
	c := &Client{
		ID:           uuid.New().String(),
		UserID:       userID,
		EventChannel: make(chan Event, ClientEventBuffer),
	}

	if len(eventTypes) > 0 {
		c.EventFilter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			c.EventFilter[t] = true
		}
	}

	if !h.add(c) {
		close(c.EventChannel)
	}
	return c
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast queues an event for userID's clients, or for every client
// when userID is empty
func (h *Hub) Broadcast(eventType, userID string, payload interface{}) {
	e := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
		userID:    userID,
	}

	select {
	case h.broadcast <- e:
	default:
		slog.Warn(LogMsgEventDropped, "event_type", eventType, "user_id", userID)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byID)
}

// UserClientCount returns how many streams userID has open
func (h *Hub) UserClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

// FormatSSEMessage renders an event in text/event-stream framing
func FormatSSEMessage(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + len(e.ID) + len(e.Type) + 20)
	if e.ID != "" {
		buf.WriteString("id: " + e.ID + "\n")
	}
	buf.WriteString("event: " + e.Type + "\n")
	buf.WriteString("data: ")
	buf.Write(data)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}
