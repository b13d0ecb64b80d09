package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/shark-krahs/game-platform/internal/logging"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server message types
const (
	MsgState      MessageType = "state"
	MsgMatchFound MessageType = "match_found"
	MsgQueued     MessageType = "queued"
	MsgError      MessageType = "error"
)

// Client message types
const (
	MsgJoinQueue  MessageType = "join_queue"
	MsgLeaveQueue MessageType = "leave_queue"
	MsgJoinGame   MessageType = "join_game"
	MsgLeaveGame  MessageType = "leave_game"
	MsgMove       MessageType = "move"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for game sessions
type Hub struct {
	// Session -> connections attached to it
	sessionConns map[string]map[*Connection]bool
	// Participant -> connections, for direct sends before a client
	// has attached to the session (match notifications)
	participantConns map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	ParticipantID string
	DisplayName   string
	// SessionID is set while the connection is attached to a game.
	// Attach and Detach are only called from the connection's read
	// goroutine.
	SessionID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SessionID     string
	ToParticipant string // Empty means everyone in the session
	Message       *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		sessionConns:     make(map[string]map[*Connection]bool),
		participantConns: make(map[string]map[*Connection]bool),
		register:         make(chan *Connection),
		unregister:       make(chan *Connection),
		broadcast:        make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.participantConns[conn.ParticipantID] == nil {
				h.participantConns[conn.ParticipantID] = make(map[*Connection]bool)
			}
			h.participantConns[conn.ParticipantID][conn] = true
			h.mu.Unlock()
			logging.L().Debug("websocket connected",
				zap.String("participant", conn.ParticipantID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.participantConns[conn.ParticipantID]; ok && conns[conn] {
				delete(conns, conn)
				if len(conns) == 0 {
					delete(h.participantConns, conn.ParticipantID)
				}
				h.detachLocked(conn)
				close(conn.Send)
				logging.L().Debug("websocket disconnected",
					zap.String("participant", conn.ParticipantID))
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.ToParticipant != "" {
				for conn := range h.participantConns[msg.ToParticipant] {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else {
				for conn := range h.sessionConns[msg.SessionID] {
					select {
					case conn.Send <- data:
					default:
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Attach binds a connection to a session so it receives that
// session's broadcasts.
func (h *Hub) Attach(conn *Connection, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(conn)
	if h.sessionConns[sessionID] == nil {
		h.sessionConns[sessionID] = make(map[*Connection]bool)
	}
	h.sessionConns[sessionID][conn] = true
	conn.SessionID = sessionID
}

// Detach unbinds a connection from its session and returns how many
// connections remain attached to it.
func (h *Hub) Detach(conn *Connection) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	sessionID := conn.SessionID
	h.detachLocked(conn)
	return len(h.sessionConns[sessionID])
}

func (h *Hub) detachLocked(conn *Connection) {
	if conn.SessionID == "" {
		return
	}
	if conns, ok := h.sessionConns[conn.SessionID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.sessionConns, conn.SessionID)
		}
	}
	conn.SessionID = ""
}

// BroadcastToGame sends a message to everyone attached to a session
// (implements engine.Broadcaster)
func (h *Hub) BroadcastToGame(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// SendToParticipant sends a message to every connection a participant
// holds, attached to the session or not (implements engine.Broadcaster)
func (h *Hub) SendToParticipant(sessionID, participantID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID:     sessionID,
		ToParticipant: participantID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// ConnectedCount reports how many connections are attached to a
// session (implements engine.Broadcaster)
func (h *Hub) ConnectedCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessionConns[sessionID])
}

// SendTo pushes an already built message to a single connection.
func (h *Hub) SendTo(conn *Connection, msgType MessageType, payload interface{}) {
	data, _ := json.Marshal(payload)
	msg, _ := json.Marshal(&Message{
		Type:    msgType,
		Payload: data,
	})
	select {
	case conn.Send <- msg:
	default:
	}
}
