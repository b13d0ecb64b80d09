package engine

import (
	"encoding/json"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/shark-krahs/game-platform/internal/bot"
	"github.com/shark-krahs/game-platform/internal/game/pentago"
	"github.com/shark-krahs/game-platform/internal/logging"
	"github.com/shark-krahs/game-platform/internal/model"
)

// PentagoEngine runs pentago sessions: countdown clocks with per-move
// increment, a first-move phase before the main clocks start, and a
// reconnection window when a player drops.
type PentagoEngine struct {
	core
}

func NewPentagoEngine(b Broadcaster, hooks Hooks) *PentagoEngine {
	return &PentagoEngine{core: newCore(b, hooks)}
}

func (e *PentagoEngine) Create(params CreateParams) *Session {
	board := pentago.NewBoard()
	s := &Session{
		ID:          params.ID,
		GameType:    model.GamePentago,
		Phase:       model.PhaseWaiting,
		Slots:       params.Slots,
		Turn:        rand.Intn(2),
		TimeControl: params.TimeControl,
		Rated:       params.Rated,
		CreatedAt:   time.Now(),
		Pentago:     &board,
	}
	initial := float64(params.TimeControl.InitialSeconds)
	s.Clocks = [2]float64{initial, initial}

	e.storeActive(s)
	e.startTicker(s, e.tick)
	logging.L().Info("pentago session created",
		zap.String("session", s.ID),
		zap.String("time_control", params.TimeControl.Key()),
		zap.Bool("rated", params.Rated))
	return s
}

func (e *PentagoEngine) Get(sessionID string) *Session {
	return e.core.Get(sessionID)
}

// tick advances the session by one second. Phase transitions, clock
// countdowns and timeout losses all happen here.
func (e *PentagoEngine) tick(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Phase == model.PhaseWaiting {
		s.Phase = model.PhaseFirstMove
		s.FirstMoveSlot = s.Turn
		s.FirstMoveTimer = firstMoveSeconds
		go e.ScheduleBot(s.ID)
	}

	switch s.Phase {
	case model.PhaseFirstMove:
		s.FirstMoveTimer--
		if s.FirstMoveTimer <= 0 {
			e.finishLocked(s, model.Outcome{WinnerSlot: 1 - s.Turn})
			return
		}
		e.broadcastLocked(s)

	case model.PhasePlaying, model.PhaseDisconnectWait:
		s.Clocks[s.Turn]--
		e.broadcastLocked(s)
		if s.Clocks[s.Turn] <= 0 {
			e.finishLocked(s, model.Outcome{WinnerSlot: 1 - s.Turn})
			return
		}
	}

	// The reconnection countdown runs alongside the main clock.
	if !s.finishedLocked() && s.DisconnectTimer > 0 {
		s.DisconnectTimer--
		if s.DisconnectTimer <= 0 {
			e.finishLocked(s, model.Outcome{WinnerSlot: 1 - s.DisconnectedSlot})
			return
		}
		e.broadcastLocked(s)
	}
}

func (e *PentagoEngine) ProcessMove(sessionID string, slot int, raw json.RawMessage) error {
	s := e.getActive(sessionID)
	if s == nil {
		return ErrSessionNotFound
	}

	var mv pentago.Move
	if err := json.Unmarshal(raw, &mv); err != nil {
		return ErrMalformedMove
	}

	s.mu.Lock()
	switch s.Phase {
	case model.PhaseFirstMove, model.PhasePlaying, model.PhaseDisconnectWait:
	default:
		s.mu.Unlock()
		return ErrWrongPhase
	}
	if slot != s.Turn {
		s.mu.Unlock()
		return ErrNotYourTurn
	}
	if !s.Pentago.IsValidMove(mv) {
		s.mu.Unlock()
		return ErrInvalidMove
	}

	next := s.Pentago.Apply(mv, slot)
	s.Pentago = &next

	// Increment applies to the mover even when the game ends on this
	// move, so the saved clocks match what the player saw.
	s.Clocks[slot] += float64(s.TimeControl.IncrementSeconds)

	var outcome *model.Outcome
	if winner, ok := next.CheckWinner(); ok {
		outcome = &model.Outcome{WinnerSlot: winner}
	} else if next.IsDraw() {
		outcome = &model.Outcome{Draw: true}
	}

	if s.Phase == model.PhaseFirstMove && outcome == nil {
		s.FirstMoveCount++
		if s.FirstMoveCount >= 2 {
			s.Phase = model.PhasePlaying
			s.FirstMoveTimer = 0
		} else {
			s.FirstMoveSlot = 1 - slot
			s.FirstMoveTimer = firstMoveSeconds
		}
	}

	s.Turn = 1 - slot
	s.MoveLog = append(s.MoveLog, model.MoveRecord{
		Slot:        slot,
		Move:        append(json.RawMessage(nil), raw...),
		BoardAfter:  s.boardSnapshotLocked(),
		ClocksAfter: s.Clocks,
		At:          time.Now(),
	})

	if outcome != nil {
		e.finishLocked(s, *outcome)
		s.mu.Unlock()
		return nil
	}

	e.broadcastLocked(s)
	s.mu.Unlock()

	e.ScheduleBot(sessionID)
	return nil
}

// Reconnect resumes a session waiting on the given slot.
func (e *PentagoEngine) Reconnect(sessionID string, slot int) bool {
	s := e.getActive(sessionID)
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Phase != model.PhaseDisconnectWait || s.DisconnectedSlot != slot {
		return false
	}
	s.Phase = model.PhasePlaying
	s.DisconnectTimer = 0
	logging.L().Info("player reconnected, session resumed",
		zap.String("session", sessionID), zap.Int("slot", slot))
	e.broadcastLocked(s)
	return true
}

// HandleDisconnect starts the reconnection window when one player
// drops mid-game, or tears the session down when nobody is left.
func (e *PentagoEngine) HandleDisconnect(sessionID string, slot int, remaining int) {
	s := e.getActive(sessionID)
	if s == nil {
		return
	}

	s.mu.Lock()
	if s.Phase != model.PhasePlaying {
		s.mu.Unlock()
		return
	}

	if remaining == 0 {
		s.mu.Unlock()
		e.abandon(sessionID)
		return
	}

	s.Phase = model.PhaseDisconnectWait
	s.DisconnectTimer = disconnectSeconds
	s.DisconnectedSlot = slot
	logging.L().Info("player disconnected, reconnection window open",
		zap.String("session", sessionID), zap.Int("slot", slot))
	e.broadcastLocked(s)
	s.mu.Unlock()
}

// ScheduleBot fires a delayed bot turn when the slot to move is a bot.
// The bot re-reads the session after its thinking pause, so a human
// move or timeout racing with it is harmless.
func (e *PentagoEngine) ScheduleBot(sessionID string) {
	s := e.getActive(sessionID)
	if s == nil {
		return
	}

	s.mu.Lock()
	slot := s.Slots[s.Turn]
	s.mu.Unlock()
	if !slot.IsBot {
		return
	}

	go func() {
		time.Sleep(bot.ThinkDelay())

		s := e.getActive(sessionID)
		if s == nil {
			return
		}
		s.mu.Lock()
		switch s.Phase {
		case model.PhaseFirstMove, model.PhasePlaying, model.PhaseDisconnectWait:
		default:
			s.mu.Unlock()
			return
		}
		botSlot := s.Turn
		acting := s.Slots[botSlot]
		board := *s.Pentago
		budget := bot.ThinkBudgetFor(s.TimeControl)
		s.mu.Unlock()

		if !acting.IsBot {
			return
		}

		mv, ok := bot.SelectPentagoMove(board, botSlot, acting.Rating, acting.Difficulty, budget)
		if !ok {
			return
		}
		raw, err := json.Marshal(mv)
		if err != nil {
			return
		}
		if err := e.ProcessMove(sessionID, botSlot, raw); err != nil {
			logging.L().Warn("bot move rejected",
				zap.String("session", sessionID), zap.Error(err))
		}
	}()
}
