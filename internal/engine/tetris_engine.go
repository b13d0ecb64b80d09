package engine

import (
	"encoding/json"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/shark-krahs/game-platform/internal/bot"
	"github.com/shark-krahs/game-platform/internal/game/tetris"
	"github.com/shark-krahs/game-platform/internal/logging"
	"github.com/shark-krahs/game-platform/internal/model"
)

// TetrisMove is the wire payload for tetris: either a step of the
// falling piece or a hard drop.
type TetrisMove struct {
	Action    string           `json:"action"`
	Direction tetris.Direction `json:"direction,omitempty"`
}

// Tetris move actions.
const (
	TetrisActionMove = "move"
	TetrisActionLock = "lock"
)

// TetrisEngine runs shared-board tetris sessions. There is no waiting
// or first-move phase: the session starts in playing with a piece
// already falling, and each turn runs on a per-move countdown equal to
// the time control's increment.
type TetrisEngine struct {
	core
}

func NewTetrisEngine(b Broadcaster, hooks Hooks) *TetrisEngine {
	return &TetrisEngine{core: newCore(b, hooks)}
}

func (e *TetrisEngine) Create(params CreateParams) *Session {
	bag := tetris.NewBag(time.Now().UnixNano())
	state := tetris.NewState(bag).StartFalling()

	s := &Session{
		ID:          params.ID,
		GameType:    model.GameTetris,
		Phase:       model.PhasePlaying,
		Slots:       params.Slots,
		Turn:        rand.Intn(2),
		TimeControl: params.TimeControl,
		Rated:       params.Rated,
		CreatedAt:   time.Now(),
		Tetris:      state,
		bag:         bag,
	}
	inc := float64(params.TimeControl.IncrementSeconds)
	s.Clocks = [2]float64{inc, inc}

	e.storeActive(s)
	e.startTicker(s, e.tick)
	logging.L().Info("tetris session created",
		zap.String("session", s.ID),
		zap.Int("increment", params.TimeControl.IncrementSeconds),
		zap.Bool("rated", params.Rated))
	return s
}

func (e *TetrisEngine) Get(sessionID string) *Session {
	return e.core.Get(sessionID)
}

// tick applies gravity, the per-move countdown, and their losses.
func (e *TetrisEngine) tick(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Phase != model.PhasePlaying {
		return
	}

	if s.Tetris.Falling == nil {
		s.Tetris = s.Tetris.StartFalling()
	}

	if s.Tetris.Falling != nil {
		s.Tetris = s.Tetris.MoveFalling(tetris.MoveDown, s.Turn, s.bag)

		if s.Tetris.TopOut {
			e.finishLocked(s, model.Outcome{WinnerSlot: 1 - s.Turn})
			return
		}
		if s.Tetris.Falling == nil {
			// Gravity locked the piece.
			if e.advanceTurnLocked(s) {
				return
			}
		}
	}

	if s.Tetris.Falling != nil {
		s.Clocks[s.Turn]--
		if s.Clocks[s.Turn] <= 0 {
			e.finishLocked(s, model.Outcome{WinnerSlot: 1 - s.Turn})
			return
		}
	}

	e.broadcastLocked(s)
}

// advanceTurnLocked runs after a piece locks: hand the board to the
// other player, reset their countdown, and end the game when they have
// nowhere to put the next piece. In that case the player who just
// moved wins. Returns true when the session finished.
func (e *TetrisEngine) advanceTurnLocked(s *Session) bool {
	mover := s.Turn
	s.Turn = 1 - s.Turn
	s.Clocks[s.Turn] = float64(s.TimeControl.IncrementSeconds)

	if !s.Tetris.HasPlacement() {
		e.finishLocked(s, model.Outcome{WinnerSlot: mover})
		return true
	}

	s.Tetris = s.Tetris.StartFalling()
	e.broadcastLocked(s)
	go e.ScheduleBot(s.ID)
	return false
}

func (e *TetrisEngine) ProcessMove(sessionID string, slot int, raw json.RawMessage) error {
	s := e.getActive(sessionID)
	if s == nil {
		return ErrSessionNotFound
	}

	var mv TetrisMove
	if err := json.Unmarshal(raw, &mv); err != nil {
		return ErrMalformedMove
	}

	s.mu.Lock()
	if s.Phase != model.PhasePlaying {
		s.mu.Unlock()
		return ErrWrongPhase
	}
	if slot != s.Turn {
		s.mu.Unlock()
		return ErrNotYourTurn
	}

	switch mv.Action {
	case TetrisActionMove:
		switch mv.Direction {
		case tetris.MoveLeft, tetris.MoveRight, tetris.MoveDown, tetris.MoveRotate:
		default:
			s.mu.Unlock()
			return ErrInvalidMove
		}
		s.Tetris = s.Tetris.MoveFalling(mv.Direction, slot, s.bag)

	case TetrisActionLock:
		s.Tetris = s.Tetris.HardDrop(slot, s.bag)

	default:
		s.mu.Unlock()
		return ErrInvalidMove
	}

	if s.Tetris.TopOut {
		e.finishLocked(s, model.Outcome{WinnerSlot: 1 - slot})
		s.mu.Unlock()
		return nil
	}

	if s.Tetris.Falling == nil {
		s.MoveLog = append(s.MoveLog, model.MoveRecord{
			Slot:        slot,
			Move:        append(json.RawMessage(nil), raw...),
			BoardAfter:  s.boardSnapshotLocked(),
			ClocksAfter: s.Clocks,
			At:          time.Now(),
		})
		if e.advanceTurnLocked(s) {
			s.mu.Unlock()
			return nil
		}
	}

	e.broadcastLocked(s)
	s.mu.Unlock()
	return nil
}

// Reconnect is a no-op for tetris; there is no disconnect_wait phase.
func (e *TetrisEngine) Reconnect(string, int) bool {
	return false
}

// HandleDisconnect forfeits the departing player immediately. The
// shared board makes a paused reconnection window meaningless: the
// remaining player's countdown would keep running against a frozen
// opponent.
func (e *TetrisEngine) HandleDisconnect(sessionID string, slot int, remaining int) {
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

	logging.L().Info("player left tetris session, forfeiting",
		zap.String("session", sessionID), zap.Int("slot", slot))
	e.finishLocked(s, model.Outcome{WinnerSlot: 1 - slot})
	s.mu.Unlock()
}

// ScheduleBot plays a full bot turn: steer the falling piece to the
// planned spot, then lock it.
func (e *TetrisEngine) ScheduleBot(sessionID string) {
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
		if s.Phase != model.PhasePlaying || !s.Slots[s.Turn].IsBot {
			s.mu.Unlock()
			return
		}
		botSlot := s.Turn
		difficulty := s.Slots[botSlot].Difficulty
		state := s.Tetris
		s.mu.Unlock()

		target, ok := bot.PlanTetrisTarget(state, botSlot, difficulty)
		if !ok {
			return
		}

		for _, dir := range bot.SteerMoves(state.Falling, target) {
			raw, _ := json.Marshal(TetrisMove{Action: TetrisActionMove, Direction: dir})
			if err := e.ProcessMove(sessionID, botSlot, raw); err != nil {
				return
			}
		}
		raw, _ := json.Marshal(TetrisMove{Action: TetrisActionLock})
		if err := e.ProcessMove(sessionID, botSlot, raw); err != nil {
			logging.L().Warn("bot lock rejected",
				zap.String("session", sessionID), zap.Error(err))
		}
	}()
}
