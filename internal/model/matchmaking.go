package model

import "time"

// WaitingPlayer is one matchmaking pool entry. It lives from queue-join
// until queue-leave or pairing.
type WaitingPlayer struct {
	ParticipantID string    `json:"participant_id"`
	DisplayName   string    `json:"name"`
	Rating        float64   `json:"rating"`
	GameType      GameType  `json:"game_type"`
	TimeControl   string    `json:"time_control"`
	Rated         bool      `json:"rated"`
	IsAnonymous   bool      `json:"is_anonymous"`
	JoinedAt      time.Time `json:"joined_at"`
}

// PoolKey identifies the pool this entry waits in.
func (w *WaitingPlayer) PoolKey() string {
	return MakePoolKey(w.GameType, w.TimeControl, w.Rated)
}

// MakePoolKey builds the matchmaking pool key. The exact time control
// string keeps pools separated, e.g. "pentago_5+3_rated".
func MakePoolKey(gameType GameType, timeControl string, rated bool) string {
	mode := "casual"
	if rated {
		mode = "rated"
	}
	return string(gameType) + "_" + timeControl + "_" + mode
}
