package engine

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToGame(sessionID string, msgType string, payload interface{})
	SendToParticipant(sessionID, participantID string, msgType string, payload interface{})
	ConnectedCount(sessionID string) int
}
