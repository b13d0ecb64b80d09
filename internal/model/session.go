package model

import (
	"encoding/json"
	"strings"
	"time"
)

// GameType identifies one of the supported rule sets.
type GameType string

const (
	GamePentago GameType = "pentago"
	GameTetris  GameType = "tetris"
)

// Phase is the session-level state machine state.
type Phase string

const (
	PhaseWaiting        Phase = "waiting"
	PhaseFirstMove      Phase = "first_move"
	PhasePlaying        Phase = "playing"
	PhaseDisconnectWait Phase = "disconnect_wait"
	PhaseFinished       Phase = "finished"
)

// BotIDPrefix marks participant ids that belong to computer opponents.
const BotIDPrefix = "bot_"

// IsBotID reports whether a participant id belongs to a bot.
func IsBotID(participantID string) bool {
	return strings.HasPrefix(participantID, BotIDPrefix)
}

// PlayerSlot is one of the two fixed player positions in a session.
// Slot identity is stable for the session's lifetime.
type PlayerSlot struct {
	Index         int     `json:"index" bson:"index"`
	ParticipantID string  `json:"participant_id" bson:"participantId"`
	DisplayName   string  `json:"name" bson:"name"`
	Color         string  `json:"color" bson:"color"`
	IsBot         bool    `json:"is_bot" bson:"isBot"`
	Difficulty    int     `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	Rating        float64 `json:"rating,omitempty" bson:"rating,omitempty"`
}

// Outcome is the terminal result of a session. A nil *Outcome means the
// session is still running; Draw true means no winner.
type Outcome struct {
	WinnerSlot int  `json:"winner_slot" bson:"winnerSlot"`
	Draw       bool `json:"draw" bson:"draw"`
}

// MoveRecord is one applied move together with the board snapshot and
// clocks it produced, enough to replay the game exactly.
type MoveRecord struct {
	Slot        int             `json:"slot" bson:"slot"`
	Move        json.RawMessage `json:"move" bson:"move"`
	BoardAfter  interface{}     `json:"board_after" bson:"boardAfter"`
	ClocksAfter [2]float64      `json:"clocks_after" bson:"clocksAfter"`
	At          time.Time       `json:"at" bson:"at"`
}

// SavedGame is the persistence snapshot written once per human
// participant when a session finishes.
type SavedGame struct {
	ID            string       `json:"id" bson:"_id,omitempty"`
	ParticipantID string       `json:"participant_id" bson:"participantId"`
	SessionID     string       `json:"session_id" bson:"sessionId"`
	GameType      GameType     `json:"game_type" bson:"gameType"`
	Title         string       `json:"title" bson:"title"`
	BoardState    interface{}  `json:"board_state" bson:"boardState"`
	Slots         []PlayerSlot `json:"slots" bson:"slots"`
	TurnIndex     int          `json:"turn_index" bson:"turnIndex"`
	Clocks        [2]float64   `json:"clocks" bson:"clocks"`
	Outcome       *Outcome     `json:"outcome,omitempty" bson:"outcome,omitempty"`
	Moves         []MoveRecord `json:"moves" bson:"moves"`
	TimeControl   TimeControl  `json:"time_control" bson:"timeControl"`
	Rated         bool         `json:"rated" bson:"rated"`
	CreatedAt     time.Time    `json:"created_at" bson:"createdAt"`
}
