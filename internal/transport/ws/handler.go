package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/shark-krahs/game-platform/internal/logging"
	"github.com/shark-krahs/game-platform/internal/model"
	"github.com/shark-krahs/game-platform/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// JoinQueuePayload is the client request to enter matchmaking.
type JoinQueuePayload struct {
	GameType    model.GameType `json:"game_type"`
	TimeControl string         `json:"time_control"`
	Rated       bool           `json:"rated"`
}

// JoinGamePayload attaches the connection to a session.
type JoinGamePayload struct {
	SessionID string `json:"session_id"`
}

// Handler handles WebSocket connections
type Handler struct {
	hub     *Hub
	authSvc *service.AuthService
	gameSvc *service.GameService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, gameSvc *service.GameService) *Handler {
	return &Handler{
		hub:     hub,
		authSvc: authSvc,
		gameSvc: gameSvc,
	}
}

// Serve handles GET /v1/ws
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.L().Warn("websocket upgrade error", zap.Error(err))
		return
	}

	conn := &Connection{
		ParticipantID: claims.ParticipantID,
		DisplayName:   claims.DisplayName,
		Send:          make(chan []byte, 256),
		Hub:           h.hub,
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn, claims.Anonymous)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection, anonymous bool) {
	defer func() {
		h.dropConnection(conn)
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.L().Debug("websocket error", zap.Error(err))
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(conn, "malformed message")
			continue
		}
		h.handleMessage(conn, &msg, anonymous)
	}
}

func (h *Handler) handleMessage(conn *Connection, msg *Message, anonymous bool) {
	switch msg.Type {
	case MsgJoinQueue:
		var p JoinQueuePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, "malformed payload")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := h.gameSvc.JoinQueue(ctx, conn.ParticipantID, conn.DisplayName, anonymous, p.GameType, p.TimeControl, p.Rated)
		cancel()
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.hub.SendTo(conn, MsgQueued, struct{}{})

	case MsgLeaveQueue:
		h.gameSvc.LeaveQueue(conn.ParticipantID)

	case MsgJoinGame:
		var p JoinGamePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, "malformed payload")
			return
		}
		sess, _, err := h.gameSvc.JoinGame(p.SessionID, conn.ParticipantID)
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.hub.Attach(conn, p.SessionID)
		h.hub.SendTo(conn, MsgState, sess.Snapshot())

	case MsgLeaveGame:
		h.dropConnection(conn)

	case MsgMove:
		if conn.SessionID == "" {
			h.sendError(conn, "not in a game")
			return
		}
		if err := h.gameSvc.SubmitMove(conn.SessionID, conn.ParticipantID, msg.Payload); err != nil {
			h.sendError(conn, err.Error())
		}

	default:
		h.sendError(conn, "unknown message type")
	}
}

// dropConnection detaches the connection from its session and queue
// and informs the game layer. Used for both explicit leaves and socket
// closes.
func (h *Handler) dropConnection(conn *Connection) {
	h.gameSvc.LeaveQueue(conn.ParticipantID)
	if conn.SessionID == "" {
		return
	}
	sessionID := conn.SessionID
	remaining := h.hub.Detach(conn)
	h.gameSvc.LeaveGame(sessionID, conn.ParticipantID, remaining)
}

func (h *Handler) sendError(conn *Connection, reason string) {
	h.hub.SendTo(conn, MsgError, model.ErrorEvent{Reason: reason})
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
