package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shark-krahs/game-platform/internal/cache"
	"github.com/shark-krahs/game-platform/internal/engine"
	"github.com/shark-krahs/game-platform/internal/game/pentago"
	"github.com/shark-krahs/game-platform/internal/model"
)

type sentMessage struct {
	sessionID     string
	participantID string
	msgType       string
	payload       interface{}
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeBroadcaster) BroadcastToGame(sessionID, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{sessionID: sessionID, msgType: msgType, payload: payload})
}

func (f *fakeBroadcaster) SendToParticipant(sessionID, participantID, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{sessionID: sessionID, participantID: participantID, msgType: msgType, payload: payload})
}

func (f *fakeBroadcaster) ConnectedCount(sessionID string) int { return 2 }

func (f *fakeBroadcaster) matchesFor(participantID string) []model.MatchFoundEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []model.MatchFoundEvent
	for _, m := range f.sent {
		if m.participantID == participantID && m.msgType == model.EventMatchFound {
			events = append(events, m.payload.(model.MatchFoundEvent))
		}
	}
	return events
}

type memRatingRepo struct {
	mu      sync.Mutex
	records map[string]*model.RatingRecord
}

func newMemRatingRepo() *memRatingRepo {
	return &memRatingRepo{records: make(map[string]*model.RatingRecord)}
}

func (r *memRatingRepo) GetOrCreate(ctx context.Context, participantID, category string) (*model.RatingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[participantID+"/"+category]; ok {
		cp := *rec
		return &cp, nil
	}
	return &model.RatingRecord{
		ParticipantID: participantID,
		Category:      category,
		Rating:        model.DefaultRating,
		Deviation:     model.DefaultDeviation,
		Volatility:    model.DefaultVolatility,
	}, nil
}

func (r *memRatingRepo) Get(ctx context.Context, participantID, category string) (*model.RatingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[participantID+"/"+category]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *memRatingRepo) Save(ctx context.Context, rec *model.RatingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.records[rec.ParticipantID+"/"+rec.Category] = &cp
	return nil
}

func (r *memRatingRepo) ListByParticipant(ctx context.Context, participantID string) ([]*model.RatingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.RatingRecord
	for _, rec := range r.records {
		if rec.ParticipantID == participantID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRatingRepo) TopByCategory(ctx context.Context, category string, limit int64) ([]*model.RatingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.RatingRecord
	for _, rec := range r.records {
		if rec.Category == category {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memSavedGameRepo struct {
	mu    sync.Mutex
	games []*model.SavedGame
}

func (r *memSavedGameRepo) Create(ctx context.Context, game *model.SavedGame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *game
	r.games = append(r.games, &cp)
	return nil
}

func (r *memSavedGameRepo) GetByID(ctx context.Context, id string) (*model.SavedGame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.games {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}

func (r *memSavedGameRepo) ListByParticipant(ctx context.Context, participantID string, limit int64) ([]*model.SavedGame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.SavedGame
	for _, g := range r.games {
		if g.ParticipantID == participantID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *memSavedGameRepo) Delete(ctx context.Context, id string, participantID string) error {
	return nil
}

func newTestService(t *testing.T) (*GameService, *fakeBroadcaster, *memRatingRepo, *memSavedGameRepo, cache.ActiveGameCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	b := &fakeBroadcaster{}
	ratings := newMemRatingRepo()
	saved := &memSavedGameRepo{}
	active := cache.NewActiveGameCache(rdb)
	svc := NewGameService(b, ratings, saved, active)
	return svc, b, ratings, saved, active
}

func TestJoinQueuePairsClosePlayers(t *testing.T) {
	svc, b, _, _, active := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.JoinQueue(ctx, "alice", "Alice", true, model.GamePentago, "5+3", true))
	require.NoError(t, svc.JoinQueue(ctx, "bob", "Bob", true, model.GamePentago, "5+3", true))

	aliceMatches := b.matchesFor("alice")
	bobMatches := b.matchesFor("bob")
	require.Len(t, aliceMatches, 1)
	require.Len(t, bobMatches, 1)
	assert.Equal(t, aliceMatches[0].SessionID, bobMatches[0].SessionID)
	assert.NotEqual(t, aliceMatches[0].Slot, bobMatches[0].Slot)

	ref, err := active.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, aliceMatches[0].SessionID, ref.SessionID)
	assert.Equal(t, model.GamePentago, ref.GameType)
}

func TestJoinQueueRejectsBadTimeControl(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	err := svc.JoinQueue(context.Background(), "alice", "Alice", true, model.GamePentago, "blitz", true)
	assert.Error(t, err)
}

func TestJoinGameMembership(t *testing.T) {
	svc, b, _, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.JoinQueue(ctx, "alice", "Alice", true, model.GamePentago, "5+3", false))
	require.NoError(t, svc.JoinQueue(ctx, "bob", "Bob", true, model.GamePentago, "5+3", false))
	sessionID := b.matchesFor("alice")[0].SessionID

	sess, slot, err := svc.JoinGame(sessionID, "alice")
	require.NoError(t, err)
	assert.Equal(t, sessionID, sess.ID)
	assert.Equal(t, "alice", sess.Slots[slot].ParticipantID)

	_, _, err = svc.JoinGame(sessionID, "mallory")
	assert.ErrorIs(t, err, engine.ErrNotParticipant)

	_, _, err = svc.JoinGame("match_unknown", "alice")
	assert.ErrorIs(t, err, engine.ErrSessionNotFound)
}

func TestFinishPipelineRatedHumanGame(t *testing.T) {
	svc, _, ratings, saved, active := newTestService(t)
	ctx := context.Background()

	require.NoError(t, active.Set(ctx, "alice", cache.ActiveGame{SessionID: "s1", GameType: model.GamePentago}))
	require.NoError(t, active.Set(ctx, "bob", cache.ActiveGame{SessionID: "s1", GameType: model.GamePentago}))

	board := pentago.NewBoard()
	sess := &engine.Session{
		ID:       "s1",
		GameType: model.GamePentago,
		Phase:    model.PhaseFinished,
		Slots: [2]model.PlayerSlot{
			{Index: 0, ParticipantID: "alice", DisplayName: "Alice"},
			{Index: 1, ParticipantID: "bob", DisplayName: "Bob"},
		},
		Clocks:      [2]float64{120, 80},
		TimeControl: model.TimeControl{Kind: model.TimeControlClassical, InitialSeconds: 300, IncrementSeconds: 3},
		Rated:       true,
		Outcome:     &model.Outcome{WinnerSlot: 0},
		Pentago:     &board,
	}
	svc.onFinished(sess)

	winner, err := ratings.Get(ctx, "alice", "pentago_blitz")
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Greater(t, winner.Rating, model.DefaultRating)
	assert.Equal(t, 1, winner.GamesPlayed)

	loser, err := ratings.Get(ctx, "bob", "pentago_blitz")
	require.NoError(t, err)
	require.NotNil(t, loser)
	assert.Less(t, loser.Rating, model.DefaultRating)

	aliceGames, err := saved.ListByParticipant(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, aliceGames, 1)
	assert.Equal(t, "s1", aliceGames[0].SessionID)
	assert.Contains(t, aliceGames[0].Title, "Pentago")
	// ListByParticipant sorts by creation time; the archive must carry one.
	assert.False(t, aliceGames[0].CreatedAt.IsZero())

	bobGames, err := saved.ListByParticipant(ctx, "bob", 10)
	require.NoError(t, err)
	assert.Len(t, bobGames, 1)

	ref, err := active.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestFinishPipelineBotGame(t *testing.T) {
	svc, _, ratings, saved, _ := newTestService(t)
	ctx := context.Background()

	board := pentago.NewBoard()
	sess := &engine.Session{
		ID:       "s2",
		GameType: model.GamePentago,
		Phase:    model.PhaseFinished,
		Slots: [2]model.PlayerSlot{
			{Index: 0, ParticipantID: "alice", DisplayName: "Alice"},
			{Index: 1, ParticipantID: "bot_pentago_5_4242", DisplayName: "BoldBadger", IsBot: true},
		},
		TimeControl: model.TimeControl{Kind: model.TimeControlClassical, InitialSeconds: 300, IncrementSeconds: 3},
		Rated:       true,
		Outcome:     &model.Outcome{WinnerSlot: 1},
		Pentago:     &board,
	}
	svc.onFinished(sess)

	human, err := ratings.Get(ctx, "alice", "pentago_blitz")
	require.NoError(t, err)
	require.NotNil(t, human)
	assert.Less(t, human.Rating, model.DefaultRating)

	bot, err := ratings.Get(ctx, "bot_pentago_5_4242", "pentago_blitz")
	require.NoError(t, err)
	assert.Nil(t, bot)

	botGames, err := saved.ListByParticipant(ctx, "bot_pentago_5_4242", 10)
	require.NoError(t, err)
	assert.Empty(t, botGames)
}

func TestUnratedGameSkipsRatings(t *testing.T) {
	svc, _, ratings, _, _ := newTestService(t)
	ctx := context.Background()

	board := pentago.NewBoard()
	sess := &engine.Session{
		ID:       "s3",
		GameType: model.GamePentago,
		Phase:    model.PhaseFinished,
		Slots: [2]model.PlayerSlot{
			{Index: 0, ParticipantID: "alice"},
			{Index: 1, ParticipantID: "bob"},
		},
		TimeControl: model.TimeControl{Kind: model.TimeControlClassical, InitialSeconds: 300, IncrementSeconds: 3},
		Outcome:     &model.Outcome{WinnerSlot: 0},
		Pentago:     &board,
	}
	svc.onFinished(sess)

	rec, err := ratings.Get(ctx, "alice", "pentago_blitz")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestActiveGameForClearsStaleEntries(t *testing.T) {
	svc, _, _, _, active := newTestService(t)
	ctx := context.Background()

	require.NoError(t, active.Set(ctx, "alice", cache.ActiveGame{SessionID: "gone", GameType: model.GameTetris}))

	ref, err := svc.ActiveGameFor(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, ref)

	stale, err := active.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, stale)
}

func TestBotGameCreation(t *testing.T) {
	svc, b, _, _, active := newTestService(t)
	ctx := context.Background()

	svc.createBotGame(&model.WaitingPlayer{
		ParticipantID: "alice",
		DisplayName:   "Alice",
		Rating:        1400,
		GameType:      model.GameTetris,
		TimeControl:   "0+5",
		Rated:         true,
		JoinedAt:      time.Now(),
	})

	matches := b.matchesFor("alice")
	require.Len(t, matches, 1)

	sess, slot, err := svc.JoinGame(matches[0].SessionID, "alice")
	require.NoError(t, err)
	other := sess.Slots[1-slot]
	assert.True(t, other.IsBot)
	assert.True(t, model.IsBotID(other.ParticipantID))
	assert.NotEmpty(t, other.DisplayName)

	ref, err := active.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, matches[0].SessionID, ref.SessionID)
}
