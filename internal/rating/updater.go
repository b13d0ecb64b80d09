package rating

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shark-krahs/game-platform/internal/logging"
	"github.com/shark-krahs/game-platform/internal/model"
)

// Store is the persistence the updater needs. Missing records are
// created with default parameters.
type Store interface {
	GetOrCreate(ctx context.Context, participantID, category string) (*model.RatingRecord, error)
	Save(ctx context.Context, rec *model.RatingRecord) error
}

// Leaderboard mirrors saved ratings into a fast ranking structure.
// Optional; a nil leaderboard is skipped.
type Leaderboard interface {
	UpdateScore(ctx context.Context, category, participantID string, rating float64) error
}

// Updater applies finished rated games to both players' category
// ratings.
type Updater struct {
	store       Store
	leaderboard Leaderboard
}

func NewUpdater(store Store) *Updater {
	return &Updater{store: store}
}

// SetLeaderboard attaches a leaderboard mirror for saved ratings.
func (u *Updater) SetLeaderboard(lb Leaderboard) {
	u.leaderboard = lb
}

// SpeedOf buckets a time control. Tetris games run on per-move
// increments, so only the increment matters there; other games bucket
// on initial clock time.
func SpeedOf(gameType model.GameType, tc model.TimeControl) model.SpeedCategory {
	if gameType == model.GameTetris {
		switch {
		case tc.IncrementSeconds < 6:
			return model.SpeedBullet
		case tc.IncrementSeconds < 9:
			return model.SpeedBlitz
		case tc.IncrementSeconds < 12:
			return model.SpeedRapid
		default:
			return model.SpeedClassical
		}
	}
	switch {
	case tc.InitialSeconds < 180:
		return model.SpeedBullet
	case tc.InitialSeconds < 420:
		return model.SpeedBlitz
	case tc.InitialSeconds < 1200:
		return model.SpeedRapid
	default:
		return model.SpeedClassical
	}
}

// ApplyResult updates both players after a rated game. winnerSlot is
// the winning side's index; pass draw=true for a draw.
func (u *Updater) ApplyResult(ctx context.Context, gameType model.GameType, tc model.TimeControl, p1, p2 string, winnerSlot int, draw bool) error {
	category := model.RatingCategory(gameType, SpeedOf(gameType, tc))

	r1, err := u.store.GetOrCreate(ctx, p1, category)
	if err != nil {
		return err
	}
	r2, err := u.store.GetOrCreate(ctx, p2, category)
	if err != nil {
		return err
	}

	s1 := ScoreDraw
	if !draw {
		if winnerSlot == 0 {
			s1 = ScoreWin
		} else {
			s1 = ScoreLoss
		}
	}

	g1 := Glicko2{Rating: r1.Rating, Deviation: r1.Deviation, Volatility: r1.Volatility}
	g2 := Glicko2{Rating: r2.Rating, Deviation: r2.Deviation, Volatility: r2.Volatility}

	n1 := Rate(g1, g2, s1)
	n2 := Rate(g2, g1, 1-s1)

	now := time.Now()
	apply(r1, n1, now)
	apply(r2, n2, now)

	if err := u.save(ctx, r1); err != nil {
		return err
	}
	if err := u.save(ctx, r2); err != nil {
		return err
	}

	logging.L().Info("ratings updated",
		zap.String("category", category),
		zap.String("p1", p1), zap.Float64("p1_rating", r1.Rating),
		zap.String("p2", p2), zap.Float64("p2_rating", r2.Rating))
	return nil
}

// ApplyBotResult updates a single human after a rated bot game by
// rating them against a mirror of themselves. The bot keeps no rating.
func (u *Updater) ApplyBotResult(ctx context.Context, gameType model.GameType, tc model.TimeControl, participantID string, won, draw bool) error {
	category := model.RatingCategory(gameType, SpeedOf(gameType, tc))

	rec, err := u.store.GetOrCreate(ctx, participantID, category)
	if err != nil {
		return err
	}

	score := ScoreDraw
	if !draw {
		if won {
			score = ScoreWin
		} else {
			score = ScoreLoss
		}
	}

	cur := Glicko2{Rating: rec.Rating, Deviation: rec.Deviation, Volatility: rec.Volatility}
	apply(rec, Rate(cur, cur, score), time.Now())

	if err := u.save(ctx, rec); err != nil {
		return err
	}
	logging.L().Info("bot game rating updated",
		zap.String("category", category),
		zap.String("participant", participantID),
		zap.Float64("rating", rec.Rating))
	return nil
}

// save persists the record and mirrors it into the leaderboard. A
// failed mirror only logs; the stored rating is authoritative.
func (u *Updater) save(ctx context.Context, rec *model.RatingRecord) error {
	if err := u.store.Save(ctx, rec); err != nil {
		return err
	}
	if u.leaderboard != nil {
		if err := u.leaderboard.UpdateScore(ctx, rec.Category, rec.ParticipantID, rec.Rating); err != nil {
			logging.L().Warn("leaderboard update failed",
				zap.String("category", rec.Category),
				zap.String("participant", rec.ParticipantID),
				zap.Error(err))
		}
	}
	return nil
}

func apply(rec *model.RatingRecord, next Glicko2, now time.Time) {
	rec.Rating = next.Rating
	rec.Deviation = next.Deviation
	rec.Volatility = next.Volatility
	rec.GamesPlayed++
	rec.LastPlayed = now
}
