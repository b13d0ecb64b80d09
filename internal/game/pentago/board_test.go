package pentago

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardIsEmpty(t *testing.T) {
	b := NewBoard()
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			assert.Equal(t, Empty, b.Grid[y][x])
		}
	}
	assert.False(t, b.IsDraw())
}

func TestIsValidMove(t *testing.T) {
	b := NewBoard()
	assert.True(t, b.IsValidMove(Move{X: 0, Y: 0, Quadrant: 0, Direction: Clockwise}))
	assert.False(t, b.IsValidMove(Move{X: -1, Y: 0, Quadrant: 0, Direction: Clockwise}))
	assert.False(t, b.IsValidMove(Move{X: 8, Y: 0, Quadrant: 0, Direction: Clockwise}))
	assert.False(t, b.IsValidMove(Move{X: 0, Y: 0, Quadrant: 4, Direction: Clockwise}))
	assert.False(t, b.IsValidMove(Move{X: 0, Y: 0, Quadrant: 0, Direction: "sideways"}))

	b.Grid[3][5] = 0
	assert.False(t, b.IsValidMove(Move{X: 5, Y: 3, Quadrant: 1, Direction: CounterClockwise}))
}

func TestApplyRotatesClockwise(t *testing.T) {
	b := NewBoard()
	// Place in quadrant 0 corner; after a clockwise turn (0,0) should
	// land at (3,0) within the quadrant, i.e. grid (0,3) is off, the
	// mark moves with the rotation.
	next := b.Apply(Move{X: 0, Y: 0, Quadrant: 0, Direction: Clockwise}, 0)
	assert.Equal(t, Cell(0), next.Grid[0][3])
	assert.Equal(t, Empty, next.Grid[0][0])
}

func TestApplyRotatesCounterClockwise(t *testing.T) {
	b := NewBoard()
	next := b.Apply(Move{X: 0, Y: 0, Quadrant: 0, Direction: CounterClockwise}, 1)
	assert.Equal(t, Cell(1), next.Grid[3][0])
	assert.Equal(t, Empty, next.Grid[0][0])
}

func TestApplyRotatesOnlyNamedQuadrant(t *testing.T) {
	b := NewBoard()
	b.Grid[0][4] = 0 // quadrant 1
	b.Grid[4][0] = 1 // quadrant 2

	next := b.Apply(Move{X: 1, Y: 1, Quadrant: 0, Direction: Clockwise}, 0)
	assert.Equal(t, Cell(0), next.Grid[0][4])
	assert.Equal(t, Cell(1), next.Grid[4][0])
}

func TestApplyBottomRightQuadrantOffsets(t *testing.T) {
	b := NewBoard()
	// Quadrant 3 spans rows 4..7, cols 4..7.
	next := b.Apply(Move{X: 4, Y: 4, Quadrant: 3, Direction: Clockwise}, 0)
	assert.Equal(t, Cell(0), next.Grid[4][7])
	assert.Equal(t, Empty, next.Grid[4][4])
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	b := NewBoard()
	_ = b.Apply(Move{X: 2, Y: 2, Quadrant: 0, Direction: Clockwise}, 0)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			assert.Equal(t, Empty, b.Grid[y][x])
		}
	}
}

func TestCheckWinnerRow(t *testing.T) {
	b := NewBoard()
	for x := 2; x < 6; x++ {
		b.Grid[5][x] = 1
	}
	slot, ok := b.CheckWinner()
	require.True(t, ok)
	assert.Equal(t, 1, slot)
}

func TestCheckWinnerColumn(t *testing.T) {
	b := NewBoard()
	for y := 1; y < 5; y++ {
		b.Grid[y][7] = 0
	}
	slot, ok := b.CheckWinner()
	require.True(t, ok)
	assert.Equal(t, 0, slot)
}

func TestCheckWinnerMainDiagonal(t *testing.T) {
	b := NewBoard()
	for i := 0; i < 4; i++ {
		b.Grid[3+i][2+i] = 0
	}
	slot, ok := b.CheckWinner()
	require.True(t, ok)
	assert.Equal(t, 0, slot)
}

func TestCheckWinnerAntiDiagonalRightEdge(t *testing.T) {
	b := NewBoard()
	// (0,7) (1,6) (2,5) (3,4): the window anchored at column 4 must
	// cover the board's right edge.
	for i := 0; i < 4; i++ {
		b.Grid[i][7-i] = 1
	}
	slot, ok := b.CheckWinner()
	require.True(t, ok)
	assert.Equal(t, 1, slot)
}

func TestCheckWinnerNone(t *testing.T) {
	b := NewBoard()
	b.Grid[0][0] = 0
	b.Grid[0][1] = 0
	b.Grid[0][2] = 0
	b.Grid[0][3] = 1
	_, ok := b.CheckWinner()
	assert.False(t, ok)
}

func TestIsDrawFullBoard(t *testing.T) {
	b := NewBoard()
	// Fill with alternating 2x2 blocks so no line of four forms.
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if ((y/2)+(x/2))%2 == 0 {
				b.Grid[y][x] = 0
			} else {
				b.Grid[y][x] = 1
			}
		}
	}
	_, ok := b.CheckWinner()
	require.False(t, ok)
	assert.True(t, b.IsDraw())
}

func TestValidMovesCount(t *testing.T) {
	b := NewBoard()
	moves := b.ValidMoves()
	assert.Len(t, moves, 64*8)

	b.Grid[0][0] = 0
	assert.Len(t, b.ValidMoves(), 63*8)
}

func TestEvaluateFavorsOwnRuns(t *testing.T) {
	b := NewBoard()
	b.Grid[0][0] = 0
	b.Grid[0][1] = 0
	b.Grid[0][2] = 0
	assert.Positive(t, b.Evaluate(0))
	assert.Negative(t, b.Evaluate(1))
}
