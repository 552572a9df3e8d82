// Package runhub fans out run-progress events to subscribed WebSocket
// clients, for cmd/hitmand's live view of a run in progress.
package runhub

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event types sent over WebSocket.
const (
	EventCellRevealed = "cell_revealed"
	EventPhaseChanged = "phase_changed"
	EventActionTaken  = "action_taken"
	EventRunCompleted = "run_completed"
)

// WSEvent is the envelope for every WebSocket message a run emits.
type WSEvent struct {
	Type  string `json:"type"`
	RunID string `json:"run_id"`
	Data  any    `json:"data"`
}

// ClientMessage is the envelope for messages sent from the client.
type ClientMessage struct {
	Action string `json:"action"` // "subscribe" or "unsubscribe"
	RunID  string `json:"run_id"`
}

// WSConn wraps a WebSocket connection with its caller and subscriptions.
type WSConn struct {
	conn     *websocket.Conn
	callerID string
	send     chan []byte
}

// NewTestConn builds a WSConn with no underlying network connection, for
// tests in other packages that need to observe Hub broadcasts without a
// real WebSocket handshake.
func NewTestConn(callerID string, bufSize int) *WSConn {
	return &WSConn{callerID: callerID, send: make(chan []byte, bufSize)}
}

// Recv returns the connection's inbound event channel, for tests.
func (c *WSConn) Recv() <-chan []byte { return c.send }

// Hub manages WebSocket connections and per-run channel subscriptions.
type Hub struct {
	mu          sync.RWMutex
	connections map[*WSConn]bool
	runs        map[string]map[*WSConn]bool // runID -> set of connections
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*WSConn]bool),
		runs:        make(map[string]map[*WSConn]bool),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

// Unregister removes a connection from the hub and all its subscriptions.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, c)
	for runID, conns := range h.runs {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.runs, runID)
		}
	}
	close(c.send)
}

// Subscribe adds a connection to a run channel.
func (h *Hub) Subscribe(c *WSConn, runID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.runs[runID] == nil {
		h.runs[runID] = make(map[*WSConn]bool)
	}
	h.runs[runID][c] = true
}

// Unsubscribe removes a connection from a run channel.
func (h *Hub) Unsubscribe(c *WSConn, runID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.runs[runID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.runs, runID)
		}
	}
}

// BroadcastToRun sends an event to every connection subscribed to a run.
func (h *Hub) BroadcastToRun(runID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("runId", runID).Msg("failed to marshal run event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.runs[runID] {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("callerId", c.callerID).Str("runId", runID).Msg("dropping run event, buffer full")
		}
	}
}

// BroadcastToCaller sends an event to every connection authenticated as
// callerID, across however many runs or tabs it is watching.
func (h *Hub) BroadcastToCaller(callerID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("callerId", callerID).Msg("failed to marshal caller event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.connections {
		if c.callerID == callerID {
			select {
			case c.send <- data:
			default:
			}
		}
	}
}

// BroadcastRunEvent is a convenience wrapper that builds and sends a
// WSEvent in one call.
func (h *Hub) BroadcastRunEvent(runID, eventType string, data any) {
	h.BroadcastToRun(runID, WSEvent{Type: eventType, RunID: runID, Data: data})
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// RunSubscriberCount returns the number of connections subscribed to a run.
func (h *Hub) RunSubscriberCount(runID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.runs[runID])
}
