package bot

import (
	"math/rand"
	"sort"
	"time"

	"github.com/shark-krahs/game-platform/internal/game/pentago"
)

const terminalScore = 10000

// SelectPentagoMove picks the bot's next move. Difficulty 2 plays
// randomly; higher difficulties order candidates by static evaluation
// and search them with a wall-clock-bounded minimax whose depth grows
// with the opponent's rating.
func SelectPentagoMove(board pentago.Board, slot int, rating float64, difficulty int, budget time.Duration) (pentago.Move, bool) {
	moves := board.ValidMoves()
	if len(moves) == 0 {
		return pentago.Move{}, false
	}
	if difficulty <= 2 {
		return moves[rand.Intn(len(moves))], true
	}

	candidates := orderedMoves(board, moves, slot)

	depth := depthForRating(rating)
	maxMoves := 10
	if difficulty*6 > maxMoves {
		maxMoves = difficulty * 6
	}
	if len(candidates) > maxMoves {
		candidates = candidates[:maxMoves]
	}

	deadline := time.Now().Add(budget)
	best := candidates[0]
	bestScore := 0
	haveScore := false

	for _, mv := range candidates {
		next := board.Apply(mv, slot)
		score := minimax(next, depth-1, false, slot, deadline)
		if !haveScore || score > bestScore {
			haveScore = true
			bestScore = score
			best = mv
		}
		if !time.Now().Before(deadline) {
			break
		}
	}
	return best, true
}

func depthForRating(rating float64) int {
	switch {
	case rating < 1000:
		return 2
	case rating < 1500:
		return 4
	case rating < 2000:
		return 6
	case rating < 3000:
		return 8
	default:
		return 9
	}
}

// orderedMoves sorts best-looking moves first so the budget is spent
// on plausible lines.
func orderedMoves(board pentago.Board, moves []pentago.Move, slot int) []pentago.Move {
	type scored struct {
		score int
		move  pentago.Move
	}
	all := make([]scored, 0, len(moves))
	for _, mv := range moves {
		next := board.Apply(mv, slot)
		all = append(all, scored{score: next.Evaluate(slot), move: mv})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	out := make([]pentago.Move, len(all))
	for i, s := range all {
		out[i] = s.move
	}
	return out
}

func minimax(board pentago.Board, depth int, maximizing bool, rootSlot int, deadline time.Time) int {
	if winner, ok := board.CheckWinner(); ok {
		if winner == rootSlot {
			return terminalScore
		}
		return -terminalScore
	}
	if depth <= 0 || !time.Now().Before(deadline) {
		return board.Evaluate(rootSlot)
	}

	slot := rootSlot
	if !maximizing {
		slot = 1 - rootSlot
	}
	moves := board.ValidMoves()
	if len(moves) == 0 {
		return board.Evaluate(rootSlot)
	}

	if maximizing {
		best := -terminalScore - 1
		for _, mv := range moves {
			score := minimax(board.Apply(mv, slot), depth-1, false, rootSlot, deadline)
			if score > best {
				best = score
			}
			if !time.Now().Before(deadline) {
				break
			}
		}
		return best
	}

	best := terminalScore + 1
	for _, mv := range moves {
		score := minimax(board.Apply(mv, slot), depth-1, true, rootSlot, deadline)
		if score < best {
			best = score
		}
		if !time.Now().Before(deadline) {
			break
		}
	}
	return best
}
