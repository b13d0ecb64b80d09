package model

// Event types emitted by the core. The transport wraps payloads in its
// own envelope; these constants are shared so both sides agree.
const (
	EventState      = "state"
	EventMatchFound = "match_found"
	EventError      = "error"
)

// StatePlayer is the per-slot view embedded in a state broadcast.
type StatePlayer struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	Remaining float64 `json:"remaining"`
}

// StateEvent is the full game snapshot broadcast to every participant
// after each tick and each applied move.
type StateEvent struct {
	GameType         GameType      `json:"game_type"`
	Status           Phase         `json:"status"`
	Players          []StatePlayer `json:"players"`
	CurrentPlayer    int           `json:"current_player"`
	Winner           *string       `json:"winner"`
	Board            interface{}   `json:"board"`
	BoardState       interface{}   `json:"board_state,omitempty"`
	FirstMoveTimer   *float64      `json:"first_move_timer,omitempty"`
	FirstMovePlayer  *int          `json:"first_move_player,omitempty"`
	DisconnectTimer  *float64      `json:"disconnect_timer,omitempty"`
	DisconnectedSlot *int          `json:"disconnected_player,omitempty"`
}

// MatchFoundEvent notifies a queued player that a session was created
// for them.
type MatchFoundEvent struct {
	SessionID string `json:"session_id"`
	Color     string `json:"color"`
	Slot      int    `json:"slot"`
}

// ErrorEvent reports a rejected request to the sender only.
type ErrorEvent struct {
	Reason string `json:"reason"`
}
