// Package engine runs live game sessions: per-session tick goroutines,
// the session state machine, move processing, and bot turns. One
// engine exists per game type; the Registry routes session ids to the
// right one.
package engine

import (
	"encoding/json"

	"github.com/shark-krahs/game-platform/internal/model"
)

// CreateParams describes a session to create. Slot order fixes colors
// and clock indexes for the session's lifetime.
type CreateParams struct {
	ID          string
	Slots       [2]model.PlayerSlot
	TimeControl model.TimeControl
	Rated       bool
}

// GameEngine is what the service layer and transport drive. Both game
// engines implement it.
type GameEngine interface {
	// Create registers the session and starts its tick goroutine.
	Create(params CreateParams) *Session
	// Get returns an active or recently finished session, nil if the
	// id resolves to nothing.
	Get(sessionID string) *Session
	// ProcessMove validates and applies one move for slot.
	ProcessMove(sessionID string, slot int, raw json.RawMessage) error
	// Reconnect resumes a session halted in disconnect_wait for slot.
	// It reports whether the session state changed.
	Reconnect(sessionID string, slot int) bool
	// HandleDisconnect reacts to slot dropping its last connection;
	// remaining is the number of connections still attached to the
	// session.
	HandleDisconnect(sessionID string, slot int, remaining int)
	// ScheduleBot queues a delayed bot turn if the slot to move is a
	// bot.
	ScheduleBot(sessionID string)
}
