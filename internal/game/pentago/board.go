// Package pentago implements the rotating-board rule engine: an 8x8
// grid split into four 4x4 quadrants, where every move places a mark
// and then rotates one quadrant a quarter turn.
package pentago

// Board dimensions.
const (
	Size         = 8
	QuadrantSize = 4
	winLength    = 4
)

// Cell holds the owning slot index, or Empty.
type Cell int8

// Empty marks an unoccupied cell.
const Empty Cell = -1

// Direction of a quadrant rotation.
type Direction string

const (
	Clockwise        Direction = "clockwise"
	CounterClockwise Direction = "counterclockwise"
)

// Move is a placement at (X, Y) followed by rotating quadrant
// Quadrant (0..3, row-major) in Direction.
type Move struct {
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Quadrant  int       `json:"quadrant"`
	Direction Direction `json:"direction"`
}

// Board is a plain value; Apply copies it, so snapshots taken before a
// move stay valid after it.
type Board struct {
	Grid [Size][Size]Cell `json:"grid"`
}

// NewBoard returns an empty board.
func NewBoard() Board {
	var b Board
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			b.Grid[y][x] = Empty
		}
	}
	return b
}

// IsValidMove checks bounds, cell emptiness, and quadrant/direction
// well-formedness. It never mutates the board.
func (b Board) IsValidMove(mv Move) bool {
	if mv.X < 0 || mv.X >= Size || mv.Y < 0 || mv.Y >= Size {
		return false
	}
	if b.Grid[mv.Y][mv.X] != Empty {
		return false
	}
	if mv.Quadrant < 0 || mv.Quadrant >= 4 {
		return false
	}
	return mv.Direction == Clockwise || mv.Direction == CounterClockwise
}

// Apply places slot's mark and rotates the named quadrant, returning
// the resulting board. The receiver is a value, so the caller's board
// is untouched.
func (b Board) Apply(mv Move, slot int) Board {
	b.Grid[mv.Y][mv.X] = Cell(slot)
	b.rotateQuadrant(mv.Quadrant, mv.Direction)
	return b
}

func (b *Board) rotateQuadrant(quadrant int, dir Direction) {
	startRow := (quadrant / 2) * QuadrantSize
	startCol := (quadrant % 2) * QuadrantSize

	var src [QuadrantSize][QuadrantSize]Cell
	for r := 0; r < QuadrantSize; r++ {
		for c := 0; c < QuadrantSize; c++ {
			src[r][c] = b.Grid[startRow+r][startCol+c]
		}
	}

	var rotated [QuadrantSize][QuadrantSize]Cell
	if dir == Clockwise {
		for r := 0; r < QuadrantSize; r++ {
			for c := 0; c < QuadrantSize; c++ {
				rotated[c][QuadrantSize-1-r] = src[r][c]
			}
		}
	} else {
		for r := 0; r < QuadrantSize; r++ {
			for c := 0; c < QuadrantSize; c++ {
				rotated[QuadrantSize-1-c][r] = src[r][c]
			}
		}
	}

	for r := 0; r < QuadrantSize; r++ {
		for c := 0; c < QuadrantSize; c++ {
			b.Grid[startRow+r][startCol+c] = rotated[r][c]
		}
	}
}

// CheckWinner scans for four consecutive identical marks and returns
// the first owning slot found. The scan order is rows, then columns,
// then per-anchor main diagonal before anti-diagonal; detection order
// only decides which of several simultaneous lines is reported, but it
// is kept stable for reproducibility.
func (b Board) CheckWinner() (int, bool) {
	for y := 0; y < Size; y++ {
		if slot, ok := checkLine(func(i int) Cell { return b.Grid[y][i] }); ok {
			return slot, true
		}
	}
	for x := 0; x < Size; x++ {
		if slot, ok := checkLine(func(i int) Cell { return b.Grid[i][x] }); ok {
			return slot, true
		}
	}
	for startRow := 0; startRow <= Size-winLength; startRow++ {
		for startCol := 0; startCol <= Size-winLength; startCol++ {
			if slot, ok := checkWindow(func(i int) Cell { return b.Grid[startRow+i][startCol+i] }); ok {
				return slot, true
			}
			if slot, ok := checkWindow(func(i int) Cell { return b.Grid[startRow+i][startCol+winLength-1-i] }); ok {
				return slot, true
			}
		}
	}
	return 0, false
}

// checkLine slides a window of four over a full row or column.
func checkLine(cell func(int) Cell) (int, bool) {
	for i := 0; i <= Size-winLength; i++ {
		first := cell(i)
		if first == Empty {
			continue
		}
		run := true
		for j := 1; j < winLength; j++ {
			if cell(i+j) != first {
				run = false
				break
			}
		}
		if run {
			return int(first), true
		}
	}
	return 0, false
}

// checkWindow inspects exactly four cells.
func checkWindow(cell func(int) Cell) (int, bool) {
	first := cell(0)
	if first == Empty {
		return 0, false
	}
	for i := 1; i < winLength; i++ {
		if cell(i) != first {
			return 0, false
		}
	}
	return int(first), true
}

// IsDraw reports a full board with no winner check implied.
func (b Board) IsDraw() bool {
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.Grid[y][x] == Empty {
				return false
			}
		}
	}
	return true
}

// ValidMoves enumerates every empty cell crossed with every
// (quadrant, direction) pair. The set is intentionally large; it feeds
// the bot's move ordering, not a UI.
func (b Board) ValidMoves() []Move {
	var moves []Move
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.Grid[y][x] != Empty {
				continue
			}
			for q := 0; q < 4; q++ {
				for _, dir := range []Direction{Clockwise, CounterClockwise} {
					moves = append(moves, Move{X: x, Y: y, Quadrant: q, Direction: dir})
				}
			}
		}
	}
	return moves
}
