package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagDealsFullPermutations(t *testing.T) {
	bag := NewBag(42)
	for round := 0; round < 3; round++ {
		seen := map[PieceType]int{}
		for i := 0; i < 7; i++ {
			seen[bag.Next()]++
		}
		require.Len(t, seen, 7)
		for _, p := range AllPieces {
			assert.Equal(t, 1, seen[p], "piece %s in round %d", p, round)
		}
	}
}

func TestNewStateDealsOnePiece(t *testing.T) {
	s := NewState(NewBag(1))
	assert.Len(t, s.NextPieces, 1)
	assert.Nil(t, s.Falling)
	assert.Equal(t, [2]int{0, 0}, s.Scores)
}

func TestStartFallingSpawnsTopCenter(t *testing.T) {
	s := NewState(NewBag(1))
	next := s.StartFalling()
	require.NotNil(t, next.Falling)
	assert.Equal(t, s.NextPieces[0], next.Falling.Type)
	assert.Equal(t, Width/2-2, next.Falling.X)
	assert.Equal(t, 0, next.Falling.Y)
	assert.Equal(t, 0, next.Falling.Rotation)
	// The queue head is only consumed on lock.
	assert.Equal(t, s.NextPieces, next.NextPieces)
}

func TestMoveFallingStepsAndBlocks(t *testing.T) {
	bag := NewBag(1)
	s := NewState(bag).StartFalling()

	left := s.MoveFalling(MoveLeft, 0, bag)
	assert.Equal(t, s.Falling.X-1, left.Falling.X)

	down := s.MoveFalling(MoveDown, 0, bag)
	assert.Equal(t, s.Falling.Y+1, down.Falling.Y)

	// Push against the left wall; blocked sideways moves are no-ops.
	cur := s
	for i := 0; i < Width; i++ {
		cur = cur.MoveFalling(MoveLeft, 0, bag)
	}
	blocked := cur.MoveFalling(MoveLeft, 0, bag)
	assert.Equal(t, cur.Falling.X, blocked.Falling.X)
}

func TestMoveFallingDoesNotMutateReceiver(t *testing.T) {
	bag := NewBag(1)
	s := NewState(bag).StartFalling()
	y := s.Falling.Y
	_ = s.MoveFalling(MoveDown, 0, bag)
	assert.Equal(t, y, s.Falling.Y)
}

func TestHardDropLocksPieceAndDealsNext(t *testing.T) {
	bag := NewBag(1)
	s := NewState(bag).StartFalling()
	pieceBefore := s.NextPieces[0]

	locked := s.HardDrop(0, bag)
	require.Nil(t, locked.Falling)
	assert.False(t, locked.TopOut)
	assert.Len(t, locked.NextPieces, 1)

	stamped := 0
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if locked.Grid[y][x] == CellLocked {
				stamped++
			}
		}
	}
	assert.Equal(t, 4, stamped, "a locked %s covers four cells", pieceBefore)
}

func TestLockClearsLinesAndScores(t *testing.T) {
	bag := NewBag(1)
	s := NewState(bag)
	s.NextPieces = []PieceType{PieceI}

	// Fill the bottom row except the four cells the flat I will cover.
	for x := 0; x < Width; x++ {
		if x < 3 || x > 6 {
			s.Grid[Height-1][x] = CellLocked
		}
	}
	s = s.StartFalling()
	locked := s.HardDrop(1, bag)

	require.Nil(t, locked.Falling)
	assert.Equal(t, 1, locked.LinesCleared)
	assert.Equal(t, ScoreFor(1), locked.Scores[1])
	assert.Equal(t, 0, locked.Scores[0])

	// The cleared row collapsed; bottom row is empty again apart from
	// nothing, and the grid keeps exactly Height rows by construction.
	for x := 0; x < Width; x++ {
		assert.Equal(t, CellEmpty, locked.Grid[Height-1][x])
	}
}

func TestScoreFor(t *testing.T) {
	assert.Equal(t, 0, ScoreFor(0))
	assert.Equal(t, 40, ScoreFor(1))
	assert.Equal(t, 100, ScoreFor(2))
	assert.Equal(t, 300, ScoreFor(3))
	assert.Equal(t, 1200, ScoreFor(4))
	assert.Equal(t, 1200, ScoreFor(7))
}

func TestTopOutWhenSpawnBlocked(t *testing.T) {
	bag := NewBag(1)
	s := NewState(bag)
	s.NextPieces = []PieceType{PieceO}

	// Occupy the spawn area so the fresh piece overlaps immediately.
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			s.Grid[y][x] = CellLocked
		}
	}
	s = s.StartFalling()
	dropped := s.HardDrop(0, bag)
	assert.True(t, dropped.TopOut)
}

func TestApplyPlacementStampsSlotMark(t *testing.T) {
	bag := NewBag(1)
	s := NewState(bag)
	s.NextPieces = []PieceType{PieceO}

	next := s.ApplyPlacement(Placement{Type: PieceO, Rotation: 0, X: 0, Y: Height - 3}, 1)
	marks := 0
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if next.Grid[y][x] == 2 {
				marks++
			}
		}
	}
	assert.Equal(t, 4, marks)
	assert.Empty(t, next.NextPieces)
}

func TestHasPlacement(t *testing.T) {
	bag := NewBag(1)
	s := NewState(bag)
	assert.True(t, s.HasPlacement())

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			s.Grid[y][x] = CellLocked
		}
	}
	assert.False(t, s.HasPlacement())
}

func TestValidPlacementsRestOnFloorOrStack(t *testing.T) {
	bag := NewBag(1)
	s := NewState(bag)
	placements := s.ValidPlacements(PieceO)
	require.NotEmpty(t, placements)
	for _, p := range placements {
		assert.True(t, s.CanPlace(p.Type, p.Rotation, p.X, p.Y))
		assert.False(t, s.CanPlace(p.Type, p.Rotation, p.X, p.Y+1), "placement %+v should rest", p)
	}
}
