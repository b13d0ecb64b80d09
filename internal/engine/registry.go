package engine

import (
	"sync"

	"github.com/shark-krahs/game-platform/internal/model"
)

// Registry owns one engine per game type and keeps a session-id index
// so a single lookup resolves any session to its engine. Sessions must
// be created through the registry to be indexed.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]model.GameType

	pentago *PentagoEngine
	tetris  *TetrisEngine
}

func NewRegistry(b Broadcaster, hooks Hooks) *Registry {
	r := &Registry{byID: make(map[string]model.GameType)}

	// The registry drops its index entry when an engine releases the
	// session, then forwards to the caller's hook.
	released := hooks.OnReleased
	hooks.OnReleased = func(sessionID string) {
		r.mu.Lock()
		delete(r.byID, sessionID)
		r.mu.Unlock()
		if released != nil {
			released(sessionID)
		}
	}

	r.pentago = NewPentagoEngine(b, hooks)
	r.tetris = NewTetrisEngine(b, hooks)
	return r
}

// EngineFor returns the engine handling a game type, nil for unknown
// types.
func (r *Registry) EngineFor(gameType model.GameType) GameEngine {
	switch gameType {
	case model.GamePentago:
		return r.pentago
	case model.GameTetris:
		return r.tetris
	}
	return nil
}

// Lookup resolves a session id to its engine.
func (r *Registry) Lookup(sessionID string) (GameEngine, bool) {
	r.mu.RLock()
	gameType, ok := r.byID[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return r.EngineFor(gameType), true
}

// CreateSession routes creation to the right engine and indexes the
// new session id.
func (r *Registry) CreateSession(gameType model.GameType, params CreateParams) *Session {
	eng := r.EngineFor(gameType)
	if eng == nil {
		return nil
	}

	r.mu.Lock()
	r.byID[params.ID] = gameType
	r.mu.Unlock()

	return eng.Create(params)
}
