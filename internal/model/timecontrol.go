package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeControlKind classifies how a session's clocks behave: classical
// clocks carry a main time plus increment, move-time clocks reset to
// the increment on every turn. Speed labels (bullet, blitz, rapid)
// are a rating concern, not a clock behavior; see SpeedCategory.
type TimeControlKind string

const (
	TimeControlClassical TimeControlKind = "classical"
	TimeControlMoveTime  TimeControlKind = "move_time"
)

// TimeControl is attached to a session at creation and never changes.
type TimeControl struct {
	Kind             TimeControlKind `json:"kind" bson:"kind"`
	InitialSeconds   int             `json:"initial_seconds" bson:"initialSeconds"`
	IncrementSeconds int             `json:"increment_seconds" bson:"incrementSeconds"`
}

// Key renders the control as the "minutes+increment" string used to key
// matchmaking pools and rating categories, e.g. "5+3".
func (tc TimeControl) Key() string {
	return fmt.Sprintf("%d+%d", tc.InitialSeconds/60, tc.IncrementSeconds)
}

// Preset time controls offered in the lobby.
const (
	BulletInitial = 3 * 60
	BulletInc     = 0
	BlitzInitial  = 5 * 60
	BlitzInc      = 3
	RapidInitial  = 15 * 60
	RapidInc      = 10
)

// ParseTimeControlKey parses a "minutes+increment" pool key back into a
// TimeControl. The kind follows the game: tetris turns run on the
// per-move increment, every other game plays out the main clock.
func ParseTimeControlKey(gameType GameType, key string) (TimeControl, error) {
	parts := strings.SplitN(strings.TrimSpace(key), "+", 2)
	if len(parts) != 2 {
		return TimeControl{}, fmt.Errorf("malformed time control %q", key)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil || minutes < 0 {
		return TimeControl{}, fmt.Errorf("malformed time control %q", key)
	}
	inc, err := strconv.Atoi(parts[1])
	if err != nil || inc < 0 {
		return TimeControl{}, fmt.Errorf("malformed time control %q", key)
	}
	kind := TimeControlClassical
	if gameType == GameTetris {
		kind = TimeControlMoveTime
	}
	return TimeControl{
		Kind:             kind,
		InitialSeconds:   minutes * 60,
		IncrementSeconds: inc,
	}, nil
}
