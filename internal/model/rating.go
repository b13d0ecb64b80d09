package model

import "time"

// Default Glicko-2 parameters for an unrated player.
const (
	DefaultRating     = 1500.0
	DefaultDeviation  = 350.0
	DefaultVolatility = 0.06
)

// SpeedCategory is a coarse classification of a time control used to
// bucket skill ratings.
type SpeedCategory string

const (
	SpeedBullet    SpeedCategory = "bullet"
	SpeedBlitz     SpeedCategory = "blitz"
	SpeedRapid     SpeedCategory = "rapid"
	SpeedClassical SpeedCategory = "classical"
)

// RatingRecord is one participant's skill rating in one category
// (game type plus speed bucket). Created lazily on first use.
type RatingRecord struct {
	ParticipantID string    `json:"participant_id" bson:"participantId"`
	Category      string    `json:"category" bson:"category"`
	Rating        float64   `json:"rating" bson:"rating"`
	Deviation     float64   `json:"deviation" bson:"deviation"`
	Volatility    float64   `json:"volatility" bson:"volatility"`
	GamesPlayed   int       `json:"games_played" bson:"gamesPlayed"`
	LastPlayed    time.Time `json:"last_played" bson:"lastPlayed"`
}

// RatingCategory builds the category string for a game type and speed
// bucket, e.g. "pentago_blitz".
func RatingCategory(gameType GameType, speed SpeedCategory) string {
	return string(gameType) + "_" + string(speed)
}
