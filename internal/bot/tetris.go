package bot

import (
	"math/rand"

	"github.com/shark-krahs/game-platform/internal/game/tetris"
)

// TetrisTarget is where the bot wants the falling piece: the rotation
// and column to steer to before locking.
type TetrisTarget struct {
	Rotation int
	X        int
}

// PlanTetrisTarget chooses a landing spot for the falling piece. Low
// difficulties aim somewhere random; higher difficulties simulate
// every resting placement and prefer cleared lines over stack height.
func PlanTetrisTarget(state *tetris.State, slot, difficulty int) (TetrisTarget, bool) {
	if state == nil || state.Falling == nil {
		return TetrisTarget{}, false
	}
	if difficulty <= 2 {
		return TetrisTarget{Rotation: rand.Intn(4), X: rand.Intn(tetris.Width)}, true
	}

	placements := state.ValidPlacements(state.Falling.Type)
	if len(placements) == 0 {
		return TetrisTarget{Rotation: rand.Intn(4), X: rand.Intn(tetris.Width)}, true
	}

	var best []tetris.Placement
	bestScore := 0
	haveScore := false
	for _, p := range placements {
		next := state.ApplyPlacement(p, slot)
		score := next.LinesCleared*10 - stackHeight(next)
		if !haveScore || score > bestScore {
			haveScore = true
			bestScore = score
			best = best[:0]
			best = append(best, p)
		} else if score == bestScore {
			best = append(best, p)
		}
	}

	chosen := best[rand.Intn(len(best))]
	return TetrisTarget{Rotation: chosen.Rotation, X: chosen.X}, true
}

// stackHeight is the distance from the highest occupied cell to the
// floor.
func stackHeight(s *tetris.State) int {
	for y := 0; y < tetris.Height; y++ {
		for x := 0; x < tetris.Width; x++ {
			if s.Grid[y][x] != tetris.CellEmpty {
				return tetris.Height - y
			}
		}
	}
	return 0
}

// SteerMoves expands a target into the rotate and shift steps that
// carry the falling piece there. The caller submits them one by one
// and finishes with a lock.
func SteerMoves(piece *tetris.FallingPiece, target TetrisTarget) []tetris.Direction {
	var steps []tetris.Direction
	for i := 0; i < (target.Rotation-piece.Rotation+4)%4; i++ {
		steps = append(steps, tetris.MoveRotate)
	}
	dx := target.X - piece.X
	dir := tetris.MoveRight
	if dx < 0 {
		dir = tetris.MoveLeft
		dx = -dx
	}
	for i := 0; i < dx; i++ {
		steps = append(steps, dir)
	}
	return steps
}
