package rating

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shark-krahs/game-platform/internal/model"
)

func defaultPlayer() Glicko2 {
	return Glicko2{
		Rating:     model.DefaultRating,
		Deviation:  model.DefaultDeviation,
		Volatility: model.DefaultVolatility,
	}
}

func TestRateWinRaisesLossLowers(t *testing.T) {
	p, opp := defaultPlayer(), defaultPlayer()

	won := Rate(p, opp, ScoreWin)
	lost := Rate(p, opp, ScoreLoss)

	assert.Greater(t, won.Rating, p.Rating)
	assert.Less(t, lost.Rating, p.Rating)
	assert.Less(t, won.Deviation, p.Deviation)
}

func TestRateDrawBetweenEqualsKeepsRating(t *testing.T) {
	p, opp := defaultPlayer(), defaultPlayer()
	drawn := Rate(p, opp, ScoreDraw)
	assert.InDelta(t, p.Rating, drawn.Rating, 1e-6)
}

func TestRateGlickmanExample(t *testing.T) {
	// The worked example from the Glicko-2 paper, reduced to its first
	// opponent: a 1500/200 player beating a 1400/30 one gains rating.
	p := Glicko2{Rating: 1500, Deviation: 200, Volatility: 0.06}
	opp := Glicko2{Rating: 1400, Deviation: 30, Volatility: 0.06}

	next := Rate(p, opp, ScoreWin)
	assert.Greater(t, next.Rating, 1500.0)
	assert.Less(t, next.Deviation, 200.0)
	assert.InDelta(t, 0.06, next.Volatility, 0.01)
}

func TestRateUpsetMovesMoreThanExpectedResult(t *testing.T) {
	weak := Glicko2{Rating: 1400, Deviation: 80, Volatility: 0.06}
	strong := Glicko2{Rating: 1700, Deviation: 80, Volatility: 0.06}

	upset := Rate(weak, strong, ScoreWin)
	expected := Rate(strong, weak, ScoreWin)

	gainUpset := upset.Rating - weak.Rating
	gainExpected := expected.Rating - strong.Rating
	assert.Greater(t, gainUpset, gainExpected)
	assert.Positive(t, gainExpected)
}

func TestSpeedOf(t *testing.T) {
	cases := []struct {
		game model.GameType
		tc   model.TimeControl
		want model.SpeedCategory
	}{
		{model.GamePentago, model.TimeControl{InitialSeconds: 60}, model.SpeedBullet},
		{model.GamePentago, model.TimeControl{InitialSeconds: 180}, model.SpeedBlitz},
		{model.GamePentago, model.TimeControl{InitialSeconds: 420}, model.SpeedRapid},
		{model.GamePentago, model.TimeControl{InitialSeconds: 1200}, model.SpeedClassical},
		{model.GameTetris, model.TimeControl{IncrementSeconds: 5}, model.SpeedBullet},
		{model.GameTetris, model.TimeControl{IncrementSeconds: 8}, model.SpeedBlitz},
		{model.GameTetris, model.TimeControl{IncrementSeconds: 11}, model.SpeedRapid},
		{model.GameTetris, model.TimeControl{IncrementSeconds: 12}, model.SpeedClassical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SpeedOf(tc.game, tc.tc), "%s %+v", tc.game, tc.tc)
	}
}

type memoryStore struct {
	records map[string]*model.RatingRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]*model.RatingRecord{}}
}

func (m *memoryStore) GetOrCreate(_ context.Context, participantID, category string) (*model.RatingRecord, error) {
	key := participantID + "/" + category
	if rec, ok := m.records[key]; ok {
		return rec, nil
	}
	rec := &model.RatingRecord{
		ParticipantID: participantID,
		Category:      category,
		Rating:        model.DefaultRating,
		Deviation:     model.DefaultDeviation,
		Volatility:    model.DefaultVolatility,
	}
	m.records[key] = rec
	return rec, nil
}

func (m *memoryStore) Save(_ context.Context, rec *model.RatingRecord) error {
	m.records[rec.ParticipantID+"/"+rec.Category] = rec
	return nil
}

func TestUpdaterApplyResult(t *testing.T) {
	store := newMemoryStore()
	u := NewUpdater(store)

	tc := model.TimeControl{InitialSeconds: 300, IncrementSeconds: 3}
	err := u.ApplyResult(context.Background(), model.GamePentago, tc, "alice", "bob", 0, false)
	require.NoError(t, err)

	winner := store.records["alice/pentago_blitz"]
	loser := store.records["bob/pentago_blitz"]
	require.NotNil(t, winner)
	require.NotNil(t, loser)
	assert.Greater(t, winner.Rating, model.DefaultRating)
	assert.Less(t, loser.Rating, model.DefaultRating)
	assert.Equal(t, 1, winner.GamesPlayed)
	assert.Equal(t, 1, loser.GamesPlayed)
	assert.False(t, winner.LastPlayed.IsZero())
}

func TestUpdaterApplyBotResultMirrors(t *testing.T) {
	store := newMemoryStore()
	u := NewUpdater(store)

	tc := model.TimeControl{IncrementSeconds: 10}
	err := u.ApplyBotResult(context.Background(), model.GameTetris, tc, "carol", true, false)
	require.NoError(t, err)

	rec := store.records["carol/tetris_rapid"]
	require.NotNil(t, rec)
	assert.Greater(t, rec.Rating, model.DefaultRating)
	assert.Len(t, store.records, 1, "the bot must not get a record")
}

func TestRateSymmetricZeroSum(t *testing.T) {
	a := Glicko2{Rating: 1600, Deviation: 100, Volatility: 0.06}
	b := Glicko2{Rating: 1600, Deviation: 100, Volatility: 0.06}
	na := Rate(a, b, ScoreWin)
	nb := Rate(b, a, ScoreLoss)
	assert.InDelta(t, 0, (na.Rating-1600)+(nb.Rating-1600), 1e-6)
	assert.True(t, math.Abs(na.Rating-1600) > 1)
}
