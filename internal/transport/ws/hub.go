package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgProgressUpdate      MessageType = "progress_update"
	MsgAssessmentCompleted MessageType = "assessment_completed"
	MsgError               MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages dashboard WebSocket connections, grouped by
// organization. Every connection of an organization receives its
// progress and completion events.
type Hub struct {
	// org -> connection set
	conns map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage

	log *zap.Logger
}

// Connection represents one dashboard WebSocket connection
type Connection struct {
	OrgID  string
	UserID string
	Send   chan []byte
	Hub    *Hub
}

// BroadcastMessage is a message to broadcast to an organization
type BroadcastMessage struct {
	OrgID   string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub(log *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		log:        log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.OrgID] == nil {
				h.conns[conn.OrgID] = make(map[*Connection]bool)
			}
			h.conns[conn.OrgID][conn] = true
			h.mu.Unlock()
			h.log.Debug("dashboard connected",
				zap.String("organizationId", conn.OrgID),
				zap.String("userId", conn.UserID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.conns[conn.OrgID]; ok && set[conn] {
				delete(set, conn)
				close(conn.Send)
				if len(set) == 0 {
					delete(h.conns, conn.OrgID)
				}
			}
			h.mu.Unlock()
			h.log.Debug("dashboard disconnected",
				zap.String("organizationId", conn.OrgID),
				zap.String("userId", conn.UserID))

		case bm := <-h.broadcast:
			data, err := json.Marshal(bm.Message)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[bm.OrgID] {
				select {
				case conn.Send <- data:
				default:
					// Slow consumer; drop the message rather than block the hub
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection to the hub
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection from the hub
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToOrg implements service.Broadcaster
func (h *Hub) BroadcastToOrg(orgID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("failed to marshal broadcast payload", zap.Error(err))
		return
	}
	h.broadcast <- &BroadcastMessage{
		OrgID: orgID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
