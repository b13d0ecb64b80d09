package engine

import (
	"context"
	"sync"
	"time"

	"github.com/shark-krahs/game-platform/internal/game/pentago"
	"github.com/shark-krahs/game-platform/internal/game/tetris"
	"github.com/shark-krahs/game-platform/internal/model"
)

// Slot colors assigned at match creation.
var SlotColors = [2]string{"#007bff", "#dc3545"}

// Timer constants, all in seconds because clocks tick once per second.
const (
	firstMoveSeconds  = 30.0
	disconnectSeconds = 30.0
)

// Session is one live game. All fields except the mutex are guarded by
// it; the tick goroutine, move handlers, and bot goroutines all take
// it before touching state.
type Session struct {
	mu sync.Mutex

	ID          string
	GameType    model.GameType
	Phase       model.Phase
	Slots       [2]model.PlayerSlot
	Turn        int
	Clocks      [2]float64
	TimeControl model.TimeControl
	Rated       bool
	Outcome     *model.Outcome
	CreatedAt   time.Time
	MoveLog     []model.MoveRecord

	// First-move phase bookkeeping.
	FirstMoveTimer float64
	FirstMoveSlot  int
	FirstMoveCount int

	// Disconnect-wait bookkeeping. A zero timer means nobody is out.
	DisconnectTimer  float64
	DisconnectedSlot int

	// Exactly one of the boards is set, matching GameType.
	Pentago *pentago.Board
	Tetris  *tetris.State
	bag     *tetris.Bag

	cancel context.CancelFunc
}

// SlotOf maps a participant id onto its slot index.
func (s *Session) SlotOf(participantID string) (int, bool) {
	for i, slot := range s.Slots {
		if slot.ParticipantID == participantID {
			return i, true
		}
	}
	return 0, false
}

// finishedLocked reports whether the session reached a terminal phase.
// Callers must hold the session mutex.
func (s *Session) finishedLocked() bool {
	return s.Phase == model.PhaseFinished
}

// winnerNameLocked resolves the outcome to a display name, nil while
// running or drawn.
func (s *Session) winnerNameLocked() *string {
	if s.Outcome == nil || s.Outcome.Draw {
		return nil
	}
	name := s.Slots[s.Outcome.WinnerSlot].DisplayName
	return &name
}

// snapshotLocked builds the state event broadcast after every tick and
// move. Callers must hold the session mutex.
func (s *Session) snapshotLocked() model.StateEvent {
	ev := model.StateEvent{
		GameType:      s.GameType,
		Status:        s.Phase,
		CurrentPlayer: s.Turn,
		Winner:        s.winnerNameLocked(),
	}
	for i, slot := range s.Slots {
		ev.Players = append(ev.Players, model.StatePlayer{
			ID:        slot.ParticipantID,
			Name:      slot.DisplayName,
			Color:     slot.Color,
			Remaining: s.Clocks[i],
		})
	}

	switch s.GameType {
	case model.GamePentago:
		board := *s.Pentago
		ev.Board = board.Grid
	case model.GameTetris:
		state := s.Tetris
		ev.Board = state.Grid
		ev.BoardState = state
	}

	switch {
	case s.Phase == model.PhaseFirstMove:
		t, p := s.FirstMoveTimer, s.FirstMoveSlot
		ev.FirstMoveTimer, ev.FirstMovePlayer = &t, &p
	case s.GameType == model.GameTetris && s.Phase == model.PhasePlaying:
		// Tetris clients reuse the first-move fields for the per-move
		// countdown of the acting player.
		t, p := s.Clocks[s.Turn], s.Turn
		ev.FirstMoveTimer, ev.FirstMovePlayer = &t, &p
	}

	if s.Phase == model.PhaseDisconnectWait {
		t, p := s.DisconnectTimer, s.DisconnectedSlot
		ev.DisconnectTimer, ev.DisconnectedSlot = &t, &p
	}
	return ev
}

// Snapshot returns the current state event. Used to bring a newly
// attached client up to date between broadcasts.
func (s *Session) Snapshot() model.StateEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// boardSnapshotLocked captures the board for the move log.
func (s *Session) boardSnapshotLocked() interface{} {
	switch s.GameType {
	case model.GamePentago:
		board := *s.Pentago
		return board
	case model.GameTetris:
		return s.Tetris
	}
	return nil
}
