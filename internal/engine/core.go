package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shark-krahs/game-platform/internal/logging"
	"github.com/shark-krahs/game-platform/internal/model"
)

// finishedGrace is how long a finished session stays readable so late
// clients can fetch the final position.
const finishedGrace = 300 * time.Second

// tickInterval drives every session clock.
const tickInterval = time.Second

// Hooks let the service layer react to session lifecycle without the
// engine importing it.
type Hooks struct {
	// OnFinished runs once per session that ends with an outcome:
	// rating updates, persistence and cache cleanup live there.
	OnFinished func(s *Session)
	// OnAbandoned runs when a session ends without an outcome because
	// everyone disconnected.
	OnAbandoned func(s *Session)
	// OnReleased runs when a session id stops being resolvable, both
	// after the finished grace period and on abandon.
	OnReleased func(sessionID string)
}

// core carries the bookkeeping both game engines share: the session
// maps, the tick scheduler, and the finish path.
type core struct {
	mu          sync.RWMutex
	active      map[string]*Session
	finished    map[string]*Session
	broadcaster Broadcaster
	hooks       Hooks
}

func newCore(b Broadcaster, hooks Hooks) core {
	return core{
		active:      make(map[string]*Session),
		finished:    make(map[string]*Session),
		broadcaster: b,
		hooks:       hooks,
	}
}

// Get returns a session by id, falling back to recently finished ones.
func (c *core) Get(sessionID string) *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if s, ok := c.active[sessionID]; ok {
		return s
	}
	return c.finished[sessionID]
}

func (c *core) getActive(sessionID string) *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active[sessionID]
}

func (c *core) storeActive(s *Session) {
	c.mu.Lock()
	c.active[s.ID] = s
	c.mu.Unlock()
}

// startTicker runs tick once per second until the session's context is
// cancelled. tick is also called directly by tests.
func (c *core) startTicker(s *Session, tick func(*Session)) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tick(s)
			}
		}
	}()
}

// broadcastLocked pushes the current snapshot to everyone in the
// session. Callers must hold the session mutex.
func (c *core) broadcastLocked(s *Session) {
	c.broadcaster.BroadcastToGame(s.ID, model.EventState, s.snapshotLocked())
}

// finishLocked ends the session with the given outcome: final
// broadcast, move to the finished map, stop the ticker, run the finish
// hook, and schedule release after the grace period. Callers must hold
// the session mutex.
func (c *core) finishLocked(s *Session, outcome model.Outcome) {
	s.Outcome = &outcome
	s.Phase = model.PhaseFinished
	c.broadcastLocked(s)

	c.mu.Lock()
	delete(c.active, s.ID)
	c.finished[s.ID] = s
	c.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	logging.L().Info("session finished",
		zap.String("session", s.ID),
		zap.String("game", string(s.GameType)),
		zap.Bool("draw", outcome.Draw),
		zap.Int("winner_slot", outcome.WinnerSlot))

	if c.hooks.OnFinished != nil {
		c.hooks.OnFinished(s)
	}

	id := s.ID
	time.AfterFunc(finishedGrace, func() {
		c.mu.Lock()
		delete(c.finished, id)
		c.mu.Unlock()
		if c.hooks.OnReleased != nil {
			c.hooks.OnReleased(id)
		}
	})
}

// abandon drops a session that everybody walked away from. No outcome
// is recorded and no ratings move.
func (c *core) abandon(sessionID string) {
	c.mu.Lock()
	s, ok := c.active[sessionID]
	if ok {
		delete(c.active, sessionID)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	if s.cancel != nil {
		s.cancel()
	}
	logging.L().Info("session abandoned", zap.String("session", sessionID))
	if c.hooks.OnAbandoned != nil {
		c.hooks.OnAbandoned(s)
	}
	if c.hooks.OnReleased != nil {
		c.hooks.OnReleased(sessionID)
	}
}
