// Package tetris implements the shared-board two-player tetris rule
// engine: players take turns dropping pieces onto one board, scoring
// for cleared lines, until someone has no legal placement or tops out.
package tetris

// PieceType names one of the seven tetrominoes.
type PieceType string

const (
	PieceI PieceType = "I"
	PieceO PieceType = "O"
	PieceT PieceType = "T"
	PieceS PieceType = "S"
	PieceZ PieceType = "Z"
	PieceJ PieceType = "J"
	PieceL PieceType = "L"
)

// AllPieces lists every piece type once, in bag order before shuffling.
var AllPieces = []PieceType{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}

// Shape is a piece mask at one rotation. Masks are not all the same
// size: I uses 4x4, O uses 3x4, the rest use 3x3.
type Shape [][]int8

var pieceShapes = map[PieceType][4]Shape{
	PieceI: {
		{{0, 0, 0, 0}, {1, 1, 1, 1}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		{{0, 0, 1, 0}, {0, 0, 1, 0}, {0, 0, 1, 0}, {0, 0, 1, 0}},
		{{0, 0, 0, 0}, {0, 0, 0, 0}, {1, 1, 1, 1}, {0, 0, 0, 0}},
		{{0, 1, 0, 0}, {0, 1, 0, 0}, {0, 1, 0, 0}, {0, 1, 0, 0}},
	},
	PieceO: {
		{{0, 1, 1, 0}, {0, 1, 1, 0}, {0, 0, 0, 0}},
		{{0, 1, 1, 0}, {0, 1, 1, 0}, {0, 0, 0, 0}},
		{{0, 1, 1, 0}, {0, 1, 1, 0}, {0, 0, 0, 0}},
		{{0, 1, 1, 0}, {0, 1, 1, 0}, {0, 0, 0, 0}},
	},
	PieceT: {
		{{0, 1, 0}, {1, 1, 1}, {0, 0, 0}},
		{{0, 1, 0}, {0, 1, 1}, {0, 1, 0}},
		{{0, 0, 0}, {1, 1, 1}, {0, 1, 0}},
		{{0, 1, 0}, {1, 1, 0}, {0, 1, 0}},
	},
	PieceS: {
		{{0, 1, 1}, {1, 1, 0}, {0, 0, 0}},
		{{0, 1, 0}, {0, 1, 1}, {0, 0, 1}},
		{{0, 0, 0}, {0, 1, 1}, {1, 1, 0}},
		{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	},
	PieceZ: {
		{{1, 1, 0}, {0, 1, 1}, {0, 0, 0}},
		{{0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
		{{0, 0, 0}, {1, 1, 0}, {0, 1, 1}},
		{{0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
	},
	PieceJ: {
		{{1, 0, 0}, {1, 1, 1}, {0, 0, 0}},
		{{0, 1, 1}, {0, 1, 0}, {0, 1, 0}},
		{{0, 0, 0}, {1, 1, 1}, {0, 0, 1}},
		{{0, 1, 0}, {0, 1, 0}, {1, 1, 0}},
	},
	PieceL: {
		{{0, 0, 1}, {1, 1, 1}, {0, 0, 0}},
		{{0, 1, 0}, {0, 1, 0}, {0, 1, 1}},
		{{0, 0, 0}, {1, 1, 1}, {1, 0, 0}},
		{{1, 1, 0}, {0, 1, 0}, {0, 1, 0}},
	},
}

// ShapeFor returns the mask for a piece at the given rotation. Unknown
// types or out-of-range rotations return nil.
func ShapeFor(t PieceType, rotation int) Shape {
	shapes, ok := pieceShapes[t]
	if !ok || rotation < 0 || rotation >= 4 {
		return nil
	}
	return shapes[rotation]
}
