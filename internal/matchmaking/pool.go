// Package matchmaking pairs queued players by rating. Entries wait in
// per-(game, time control, rated) pools; pairing happens immediately on
// join and on a periodic sweep, and players who wait too long get a
// bot opponent instead.
package matchmaking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shark-krahs/game-platform/internal/bot"
	"github.com/shark-krahs/game-platform/internal/logging"
	"github.com/shark-krahs/game-platform/internal/model"
)

// MaxRatingGap is the widest rating difference the pool will pair.
const MaxRatingGap = 150.0

// sweepInterval drives periodic matching and the bot fallback.
const sweepInterval = time.Second

// MatchHandler receives a paired couple. It runs outside the pool
// lock, so it may create sessions and call back into the pool.
type MatchHandler func(a, b *model.WaitingPlayer)

// BotMatchHandler receives a player who waited past the bot threshold.
type BotMatchHandler func(p *model.WaitingPlayer)

// Pool holds every waiting player, keyed by pool key and sorted by
// rating then join time.
type Pool struct {
	mu    sync.Mutex
	pools map[string][]*model.WaitingPlayer

	onMatch    MatchHandler
	onBotMatch BotMatchHandler
	botWait    time.Duration
}

func NewPool(onMatch MatchHandler, onBotMatch BotMatchHandler) *Pool {
	return &Pool{
		pools:      make(map[string][]*model.WaitingPlayer),
		onMatch:    onMatch,
		onBotMatch: onBotMatch,
		botWait:    bot.WaitBeforeBot,
	}
}

// Join queues a player and tries to pair right away.
func (p *Pool) Join(player *model.WaitingPlayer) string {
	key := player.PoolKey()

	p.mu.Lock()
	p.insertLocked(key, player)
	size := len(p.pools[key])
	pair := p.takePairLocked(key)
	p.mu.Unlock()

	logging.L().Info("player joined pool",
		zap.String("pool", key),
		zap.String("participant", player.ParticipantID),
		zap.Float64("rating", player.Rating),
		zap.Int("size", size))

	if pair != nil {
		p.onMatch(pair[0], pair[1])
	}
	return key
}

// Leave removes a participant from whichever pool holds them.
func (p *Pool) Leave(participantID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, players := range p.pools {
		kept := players[:0]
		for _, pl := range players {
			if pl.ParticipantID != participantID {
				kept = append(kept, pl)
			}
		}
		if len(kept) == 0 {
			delete(p.pools, key)
		} else {
			p.pools[key] = kept
		}
	}
}

// Waiting reports the number of queued players in one pool.
func (p *Pool) Waiting(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pools[key])
}

// Run sweeps every pool once per second until ctx ends.
func (p *Pool) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sweep(time.Now())
		}
	}
}

// sweep pairs what it can and falls back to bots for long waiters.
func (p *Pool) sweep(now time.Time) {
	var pairs [][2]*model.WaitingPlayer
	var botMatches []*model.WaitingPlayer

	p.mu.Lock()
	for key := range p.pools {
		if pair := p.takePairLocked(key); pair != nil {
			pairs = append(pairs, *pair)
		}
	}
	if p.onBotMatch != nil {
		for key, players := range p.pools {
			kept := players[:0]
			for _, pl := range players {
				if now.Sub(pl.JoinedAt) >= p.botWait {
					botMatches = append(botMatches, pl)
				} else {
					kept = append(kept, pl)
				}
			}
			if len(kept) == 0 {
				delete(p.pools, key)
			} else {
				p.pools[key] = kept
			}
		}
	}
	p.mu.Unlock()

	for _, pair := range pairs {
		p.onMatch(pair[0], pair[1])
	}
	for _, pl := range botMatches {
		logging.L().Info("bot fallback match",
			zap.String("participant", pl.ParticipantID),
			zap.String("pool", pl.PoolKey()))
		p.onBotMatch(pl)
	}
}

// insertLocked keeps the pool sorted by rating, then join time.
func (p *Pool) insertLocked(key string, player *model.WaitingPlayer) {
	players := p.pools[key]
	at := len(players)
	for i, pl := range players {
		if pl.Rating > player.Rating ||
			(pl.Rating == player.Rating && pl.JoinedAt.After(player.JoinedAt)) {
			at = i
			break
		}
	}
	players = append(players, nil)
	copy(players[at+1:], players[at:])
	players[at] = player
	p.pools[key] = players
}

// takePairLocked finds the closest adjacent pair within MaxRatingGap
// and removes it from the pool. The sort order makes adjacent entries
// the only candidates.
func (p *Pool) takePairLocked(key string) *[2]*model.WaitingPlayer {
	players := p.pools[key]
	if len(players) < 2 {
		return nil
	}

	minDiff := MaxRatingGap + 1
	at := -1
	for i := 0; i < len(players)-1; i++ {
		diff := players[i+1].Rating - players[i].Rating
		if diff < 0 {
			diff = -diff
		}
		if diff < minDiff {
			minDiff = diff
			at = i
		}
	}
	if at < 0 || minDiff > MaxRatingGap {
		return nil
	}

	pair := [2]*model.WaitingPlayer{players[at], players[at+1]}
	rest := append(players[:at:at], players[at+2:]...)
	if len(rest) == 0 {
		delete(p.pools, key)
	} else {
		p.pools[key] = rest
	}
	return &pair
}
