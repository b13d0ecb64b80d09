package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shark-krahs/game-platform/internal/bot"
	"github.com/shark-krahs/game-platform/internal/cache"
	"github.com/shark-krahs/game-platform/internal/engine"
	"github.com/shark-krahs/game-platform/internal/logging"
	"github.com/shark-krahs/game-platform/internal/matchmaking"
	"github.com/shark-krahs/game-platform/internal/model"
	"github.com/shark-krahs/game-platform/internal/rating"
	"github.com/shark-krahs/game-platform/internal/repository"
)

// hookTimeout bounds the persistence work done when a session ends.
const hookTimeout = 10 * time.Second

// GameService orchestrates the live-game side: matchmaking, session
// creation, move routing, and the finish pipeline (ratings, saved
// games, cache cleanup).
type GameService struct {
	registry    *engine.Registry
	pool        *matchmaking.Pool
	broadcaster engine.Broadcaster
	ratings     *rating.Updater
	ratingRepo  repository.RatingRepo
	savedGames  repository.SavedGameRepo
	activeGames cache.ActiveGameCache
}

// NewGameService wires the engines and the matchmaking pool around the
// given persistence layer. The service owns the lifecycle hooks.
func NewGameService(
	broadcaster engine.Broadcaster,
	ratingRepo repository.RatingRepo,
	savedGames repository.SavedGameRepo,
	activeGames cache.ActiveGameCache,
) *GameService {
	s := &GameService{
		broadcaster: broadcaster,
		ratings:     rating.NewUpdater(ratingRepo),
		ratingRepo:  ratingRepo,
		savedGames:  savedGames,
		activeGames: activeGames,
	}
	s.registry = engine.NewRegistry(broadcaster, engine.Hooks{
		OnFinished:  s.onFinished,
		OnAbandoned: s.onAbandoned,
	})
	s.pool = matchmaking.NewPool(s.createMatchedGame, s.createBotGame)
	return s
}

// SetLeaderboard mirrors rating updates into the given leaderboard.
func (s *GameService) SetLeaderboard(lb cache.LeaderboardCache) {
	s.ratings.SetLeaderboard(lb)
}

// Run drives the matchmaking sweep until ctx is cancelled.
func (s *GameService) Run(ctx context.Context) {
	s.pool.Run(ctx)
}

// JoinQueue adds a participant to the matchmaking pool for the given
// game and time control. Pairing may happen before it returns.
func (s *GameService) JoinQueue(ctx context.Context, participantID, displayName string, anonymous bool, gameType model.GameType, timeControl string, rated bool) error {
	tc, err := model.ParseTimeControlKey(gameType, timeControl)
	if err != nil {
		return err
	}

	category := model.RatingCategory(gameType, rating.SpeedOf(gameType, tc))
	rec, err := s.ratingRepo.GetOrCreate(ctx, participantID, category)
	if err != nil {
		return fmt.Errorf("failed to load rating: %w", err)
	}

	s.pool.Join(&model.WaitingPlayer{
		ParticipantID: participantID,
		DisplayName:   displayName,
		Rating:        rec.Rating,
		GameType:      gameType,
		TimeControl:   timeControl,
		Rated:         rated,
		IsAnonymous:   anonymous,
		JoinedAt:      time.Now(),
	})
	return nil
}

// LeaveQueue removes a participant from whichever pool holds them.
func (s *GameService) LeaveQueue(participantID string) {
	s.pool.Leave(participantID)
}

// JoinGame attaches a participant to an existing session and returns
// it with the participant's slot. Resumes a disconnect wait if one is
// pending for that slot.
func (s *GameService) JoinGame(sessionID, participantID string) (*engine.Session, int, error) {
	eng, ok := s.registry.Lookup(sessionID)
	if !ok {
		return nil, 0, engine.ErrSessionNotFound
	}
	sess := eng.Get(sessionID)
	if sess == nil {
		return nil, 0, engine.ErrSessionNotFound
	}
	slot, ok := sess.SlotOf(participantID)
	if !ok {
		return nil, 0, engine.ErrNotParticipant
	}
	eng.Reconnect(sessionID, slot)
	return sess, slot, nil
}

// LeaveGame reacts to a participant dropping out of a session.
// remaining is the number of connections still attached.
func (s *GameService) LeaveGame(sessionID, participantID string, remaining int) {
	eng, ok := s.registry.Lookup(sessionID)
	if !ok {
		return
	}
	sess := eng.Get(sessionID)
	if sess == nil {
		return
	}
	slot, ok := sess.SlotOf(participantID)
	if !ok {
		return
	}
	eng.HandleDisconnect(sessionID, slot, remaining)
}

// SubmitMove routes one move from a participant into its session.
func (s *GameService) SubmitMove(sessionID, participantID string, raw []byte) error {
	eng, ok := s.registry.Lookup(sessionID)
	if !ok {
		return engine.ErrSessionNotFound
	}
	sess := eng.Get(sessionID)
	if sess == nil {
		return engine.ErrSessionNotFound
	}
	slot, ok := sess.SlotOf(participantID)
	if !ok {
		return engine.ErrNotParticipant
	}
	return eng.ProcessMove(sessionID, slot, raw)
}

// ActiveGameFor returns the session a participant is currently in, if
// any. Stale cache entries pointing at released sessions are cleared.
func (s *GameService) ActiveGameFor(ctx context.Context, participantID string) (*cache.ActiveGame, error) {
	ref, err := s.activeGames.Get(ctx, participantID)
	if err != nil || ref == nil {
		return nil, err
	}
	if _, ok := s.registry.Lookup(ref.SessionID); !ok {
		_ = s.activeGames.Delete(ctx, participantID)
		return nil, nil
	}
	return ref, nil
}

// createMatchedGame pairs two queued humans into a new session.
func (s *GameService) createMatchedGame(a, b *model.WaitingPlayer) {
	tc, err := model.ParseTimeControlKey(a.GameType, a.TimeControl)
	if err != nil {
		logging.L().Error("bad time control in pool entry",
			zap.String("time_control", a.TimeControl), zap.Error(err))
		return
	}

	entries := [2]*model.WaitingPlayer{a, b}
	if rand.Intn(2) == 1 {
		entries[0], entries[1] = entries[1], entries[0]
	}

	var slots [2]model.PlayerSlot
	for i, e := range entries {
		slots[i] = model.PlayerSlot{
			Index:         i,
			ParticipantID: e.ParticipantID,
			DisplayName:   e.DisplayName,
			Color:         engine.SlotColors[i],
			Rating:        e.Rating,
		}
	}

	sessionID := "match_" + uuid.New().String()
	s.registry.CreateSession(a.GameType, engine.CreateParams{
		ID:          sessionID,
		Slots:       slots,
		TimeControl: tc,
		Rated:       a.Rated,
	})

	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()
	for i, slot := range slots {
		if err := s.activeGames.Set(ctx, slot.ParticipantID, cache.ActiveGame{
			SessionID: sessionID,
			GameType:  a.GameType,
		}); err != nil {
			logging.L().Warn("failed to cache active game", zap.Error(err))
		}
		s.broadcaster.SendToParticipant(sessionID, slot.ParticipantID, model.EventMatchFound, model.MatchFoundEvent{
			SessionID: sessionID,
			Color:     slot.Color,
			Slot:      i,
		})
	}

	logging.L().Info("matched game created",
		zap.String("session", sessionID),
		zap.String("game", string(a.GameType)),
		zap.String("p1", a.ParticipantID),
		zap.String("p2", b.ParticipantID))
}

// createBotGame pairs one queued human against a generated bot.
func (s *GameService) createBotGame(p *model.WaitingPlayer) {
	tc, err := model.ParseTimeControlKey(p.GameType, p.TimeControl)
	if err != nil {
		logging.L().Error("bad time control in pool entry",
			zap.String("time_control", p.TimeControl), zap.Error(err))
		return
	}

	profile := bot.NewProfile(p.Rating, p.GameType)

	humanSlot := rand.Intn(2)
	var slots [2]model.PlayerSlot
	slots[humanSlot] = model.PlayerSlot{
		Index:         humanSlot,
		ParticipantID: p.ParticipantID,
		DisplayName:   p.DisplayName,
		Color:         engine.SlotColors[humanSlot],
		Rating:        p.Rating,
	}
	botSlot := 1 - humanSlot
	slots[botSlot] = model.PlayerSlot{
		Index:         botSlot,
		ParticipantID: profile.ParticipantID,
		DisplayName:   profile.DisplayName,
		Color:         engine.SlotColors[botSlot],
		IsBot:         true,
		Difficulty:    profile.Difficulty,
		Rating:        profile.Rating,
	}

	sessionID := "match_" + uuid.New().String()
	s.registry.CreateSession(p.GameType, engine.CreateParams{
		ID:          sessionID,
		Slots:       slots,
		TimeControl: tc,
		Rated:       p.Rated,
	})

	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()
	if err := s.activeGames.Set(ctx, p.ParticipantID, cache.ActiveGame{
		SessionID: sessionID,
		GameType:  p.GameType,
	}); err != nil {
		logging.L().Warn("failed to cache active game", zap.Error(err))
	}
	s.broadcaster.SendToParticipant(sessionID, p.ParticipantID, model.EventMatchFound, model.MatchFoundEvent{
		SessionID: sessionID,
		Color:     slots[humanSlot].Color,
		Slot:      humanSlot,
	})

	if eng, ok := s.registry.Lookup(sessionID); ok {
		eng.ScheduleBot(sessionID)
	}

	logging.L().Info("bot game created",
		zap.String("session", sessionID),
		zap.String("game", string(p.GameType)),
		zap.String("human", p.ParticipantID),
		zap.String("bot", profile.ParticipantID),
		zap.Int("difficulty", profile.Difficulty))
}

// onFinished runs once per session that ends with an outcome. The
// session mutex is held by the caller; fields are read directly.
func (s *GameService) onFinished(sess *engine.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()

	if sess.Rated {
		s.updateRatings(ctx, sess)
	}
	s.persistSavedGames(ctx, sess)
	s.clearActiveGames(ctx, sess)
}

// onAbandoned runs when everyone disconnected before a result.
func (s *GameService) onAbandoned(sess *engine.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()
	s.clearActiveGames(ctx, sess)
}

func (s *GameService) updateRatings(ctx context.Context, sess *engine.Session) {
	out := sess.Outcome
	if out == nil {
		return
	}

	bots := 0
	for _, slot := range sess.Slots {
		if slot.IsBot {
			bots++
		}
	}
	switch bots {
	case 0:
		err := s.ratings.ApplyResult(ctx, sess.GameType, sess.TimeControl,
			sess.Slots[0].ParticipantID, sess.Slots[1].ParticipantID,
			out.WinnerSlot, out.Draw)
		if err != nil {
			logging.L().Error("rating update failed",
				zap.String("session", sess.ID), zap.Error(err))
		}
	case 1:
		for i, slot := range sess.Slots {
			if slot.IsBot {
				continue
			}
			won := !out.Draw && out.WinnerSlot == i
			err := s.ratings.ApplyBotResult(ctx, sess.GameType, sess.TimeControl,
				slot.ParticipantID, won, out.Draw)
			if err != nil {
				logging.L().Error("rating update failed",
					zap.String("session", sess.ID), zap.Error(err))
			}
		}
	}
}

func (s *GameService) persistSavedGames(ctx context.Context, sess *engine.Session) {
	title := fmt.Sprintf("%s - %s", sessionTitle(sess.GameType),
		time.Now().Format("2006-01-02 15:04"))

	for _, slot := range sess.Slots {
		if slot.IsBot {
			continue
		}
		game := &model.SavedGame{
			ParticipantID: slot.ParticipantID,
			SessionID:     sess.ID,
			GameType:      sess.GameType,
			Title:         title,
			BoardState:    boardState(sess),
			Slots:         sess.Slots[:],
			TurnIndex:     sess.Turn,
			Clocks:        sess.Clocks,
			Outcome:       sess.Outcome,
			Moves:         sess.MoveLog,
			TimeControl:   sess.TimeControl,
			Rated:         sess.Rated,
			CreatedAt:     time.Now(),
		}
		if err := s.savedGames.Create(ctx, game); err != nil {
			logging.L().Error("failed to save finished game",
				zap.String("session", sess.ID),
				zap.String("participant", slot.ParticipantID),
				zap.Error(err))
		}
	}
}

func (s *GameService) clearActiveGames(ctx context.Context, sess *engine.Session) {
	for _, slot := range sess.Slots {
		if slot.IsBot {
			continue
		}
		if err := s.activeGames.Delete(ctx, slot.ParticipantID); err != nil {
			logging.L().Warn("failed to clear active game",
				zap.String("participant", slot.ParticipantID), zap.Error(err))
		}
	}
}

func boardState(sess *engine.Session) interface{} {
	switch sess.GameType {
	case model.GamePentago:
		return sess.Pentago.Grid
	case model.GameTetris:
		return sess.Tetris
	}
	return nil
}

func sessionTitle(gameType model.GameType) string {
	switch gameType {
	case model.GamePentago:
		return "Pentago"
	case model.GameTetris:
		return "Tetris"
	}
	return string(gameType)
}
