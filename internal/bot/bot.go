// Package bot provides computer opponents: matchmaking fallbacks,
// difficulty scaling from the human's rating, and per-game move
// selection.
package bot

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shark-krahs/game-platform/internal/model"
)

// Matchmaking and thinking parameters.
const (
	// WaitBeforeBot is how long a queued player waits before a bot is
	// offered instead of a human.
	WaitBeforeBot = 5 * time.Second
	// RatingStep widens difficulty by one per this many rating points.
	RatingStep    = 200
	MaxDifficulty = 10

	ThinkMin = 600 * time.Millisecond
	ThinkMax = 1600 * time.Millisecond

	// Think budgets bound the minimax wall clock.
	BulletThinkBudget   = 4 * time.Second
	StandardThinkBudget = 15 * time.Second
)

// Profile describes one bot opponent generated for a match.
type Profile struct {
	ParticipantID string
	DisplayName   string
	Difficulty    int
	Rating        float64
}

// DifficultyFor maps a human rating onto 2..MaxDifficulty.
func DifficultyFor(rating float64) int {
	if rating <= 0 {
		return 2
	}
	d := 2 + int(rating)/RatingStep
	if d < 2 {
		d = 2
	}
	if d > MaxDifficulty {
		d = MaxDifficulty
	}
	return d
}

// NewProfile builds a bot matched to the given human rating.
func NewProfile(rating float64, gameType model.GameType) Profile {
	difficulty := DifficultyFor(rating)
	return Profile{
		ParticipantID: fmt.Sprintf("%s%s_%d_%d", model.BotIDPrefix, gameType, difficulty, 1000+rand.Intn(9000)),
		DisplayName:   GenerateName(),
		Difficulty:    difficulty,
		Rating:        rating,
	}
}

// ThinkDelay is the pause before a bot acts, so moves feel played
// rather than instantaneous.
func ThinkDelay() time.Duration {
	return ThinkMin + time.Duration(rand.Int63n(int64(ThinkMax-ThinkMin)))
}

// ThinkBudgetFor bounds search time by time control: fast games get
// the short budget.
func ThinkBudgetFor(tc model.TimeControl) time.Duration {
	if tc.IncrementSeconds <= 6 {
		return BulletThinkBudget
	}
	return StandardThinkBudget
}
