package tetris

// Board dimensions and cell markers.
const (
	Width  = 10
	Height = 20

	CellEmpty  int8 = 0
	CellLocked int8 = 3
)

// Direction of a falling-piece step.
type Direction string

const (
	MoveLeft   Direction = "left"
	MoveRight  Direction = "right"
	MoveDown   Direction = "down"
	MoveRotate Direction = "rotate"
)

// FallingPiece is the piece the acting player is steering.
type FallingPiece struct {
	Type     PieceType `json:"type"`
	X        int       `json:"x"`
	Y        int       `json:"y"`
	Rotation int       `json:"rotation"`
}

// Placement names a final resting position for a piece. It is the
// planning unit the bot works in.
type Placement struct {
	Type     PieceType `json:"piece_type"`
	Rotation int       `json:"rotation"`
	X        int       `json:"x"`
	Y        int       `json:"y"`
}

// State is one snapshot of the shared board. Mutating methods return a
// fresh *State, so snapshots logged before a move stay valid after it.
type State struct {
	Grid       [Height][Width]int8 `json:"grid"`
	NextPieces []PieceType         `json:"next_pieces"`
	Scores     [2]int              `json:"scores"`
	Falling    *FallingPiece       `json:"falling_piece"`
	// LinesCleared holds the count from the most recent lock.
	LinesCleared int  `json:"lines_cleared"`
	TopOut       bool `json:"top_out,omitempty"`
}

// NewState returns an empty board with one piece already dealt.
func NewState(bag *Bag) *State {
	return &State{NextPieces: []PieceType{bag.Next()}}
}

func (s *State) clone() *State {
	c := *s
	c.NextPieces = append([]PieceType(nil), s.NextPieces...)
	if s.Falling != nil {
		f := *s.Falling
		c.Falling = &f
	}
	return &c
}

// CanPlace reports whether every filled cell of the mask lands in
// bounds on an empty cell.
func (s *State) CanPlace(t PieceType, rotation, x, y int) bool {
	shape := ShapeFor(t, rotation)
	if shape == nil {
		return false
	}
	for py := range shape {
		for px := range shape[py] {
			if shape[py][px] == 0 {
				continue
			}
			gx, gy := x+px, y+py
			if gx < 0 || gx >= Width || gy < 0 || gy >= Height {
				return false
			}
			if s.Grid[gy][gx] != CellEmpty {
				return false
			}
		}
	}
	return true
}

// StartFalling spawns the head of the queue at the top center. The
// spawn position is not validated; a blocked spawn surfaces as a
// top-out when the piece locks.
func (s *State) StartFalling() *State {
	next := s.clone()
	if len(next.NextPieces) == 0 {
		return next
	}
	next.Falling = &FallingPiece{
		Type: next.NextPieces[0],
		X:    Width/2 - 2,
		Y:    0,
	}
	return next
}

// MoveFalling steps the falling piece. A blocked left, right or rotate
// is a no-op; a blocked down locks the piece in place, crediting slot
// with any cleared lines and dealing the next piece from bag.
func (s *State) MoveFalling(dir Direction, slot int, bag *Bag) *State {
	next := s.clone()
	if next.Falling == nil {
		return next
	}

	moved := *next.Falling
	switch dir {
	case MoveLeft:
		moved.X--
	case MoveRight:
		moved.X++
	case MoveDown:
		moved.Y++
	case MoveRotate:
		moved.Rotation = (moved.Rotation + 1) % 4
	default:
		return next
	}

	if next.CanPlace(moved.Type, moved.Rotation, moved.X, moved.Y) {
		next.Falling = &moved
		return next
	}
	if dir == MoveDown {
		return next.lockFalling(slot, bag)
	}
	return next
}

// HardDrop repeatedly steps the falling piece down until it locks or
// tops out.
func (s *State) HardDrop(slot int, bag *Bag) *State {
	next := s
	for next.Falling != nil && !next.TopOut {
		next = next.MoveFalling(MoveDown, slot, bag)
	}
	return next
}

// lockFalling stamps the piece at its current position, clears full
// lines, scores them, and advances the piece queue. A piece that
// cannot be stamped where it sits marks the state topped out.
func (s *State) lockFalling(slot int, bag *Bag) *State {
	next := s.clone()
	piece := next.Falling
	if piece == nil {
		return next
	}

	if !next.CanPlace(piece.Type, piece.Rotation, piece.X, piece.Y) {
		next.TopOut = true
		return next
	}

	shape := ShapeFor(piece.Type, piece.Rotation)
	for py := range shape {
		for px := range shape[py] {
			if shape[py][px] != 0 {
				next.Grid[piece.Y+py][piece.X+px] = CellLocked
			}
		}
	}

	lines := next.clearFullLines()
	next.LinesCleared = lines
	next.Scores[slot] += ScoreFor(lines)

	if len(next.NextPieces) > 0 {
		next.NextPieces = next.NextPieces[1:]
	}
	next.NextPieces = append(next.NextPieces, bag.Next())
	next.Falling = nil
	return next
}

// ApplyPlacement stamps a piece directly without a falling phase,
// marking cells with slot+1 and scoring cleared lines. It backs the
// bot's planned placements and direct-drop clients.
func (s *State) ApplyPlacement(p Placement, slot int) *State {
	next := s.clone()
	shape := ShapeFor(p.Type, p.Rotation)
	for py := range shape {
		for px := range shape[py] {
			if shape[py][px] != 0 {
				next.Grid[p.Y+py][p.X+px] = int8(slot + 1)
			}
		}
	}
	next.LinesCleared = next.clearFullLines()
	next.Scores[slot] += ScoreFor(next.LinesCleared)
	if len(next.NextPieces) > 0 {
		next.NextPieces = next.NextPieces[1:]
	}
	return next
}

func (s *State) clearFullLines() int {
	cleared := 0
	for y := Height - 1; y >= 0; {
		full := true
		for x := 0; x < Width; x++ {
			if s.Grid[y][x] == CellEmpty {
				full = false
				break
			}
		}
		if !full {
			y--
			continue
		}
		for yy := y; yy > 0; yy-- {
			s.Grid[yy] = s.Grid[yy-1]
		}
		s.Grid[0] = [Width]int8{}
		cleared++
	}
	return cleared
}

// ScoreFor maps cleared lines to points.
func ScoreFor(lines int) int {
	scores := [5]int{0, 40, 100, 300, 1200}
	if lines > 4 {
		lines = 4
	}
	return scores[lines]
}

// HasPlacement reports whether any legal position exists for the next
// queued piece. Any in-bounds empty fit counts; the acting player can
// always steer the piece there.
func (s *State) HasPlacement() bool {
	if len(s.NextPieces) == 0 {
		return false
	}
	t := s.NextPieces[0]
	for rotation := 0; rotation < 4; rotation++ {
		for x := -3; x <= Width; x++ {
			for y := 0; y < Height; y++ {
				if s.CanPlace(t, rotation, x, y) {
					return true
				}
			}
		}
	}
	return false
}

// ValidPlacements enumerates every resting position for a piece: in
// bounds, on empty cells, and unable to drop one more row. This is the
// set the bot plans over.
func (s *State) ValidPlacements(t PieceType) []Placement {
	var out []Placement
	for rotation := 0; rotation < 4; rotation++ {
		if ShapeFor(t, rotation) == nil {
			continue
		}
		for x := -3; x <= Width; x++ {
			for y := 0; y < Height; y++ {
				if !s.CanPlace(t, rotation, x, y) {
					continue
				}
				if !s.CanPlace(t, rotation, x, y+1) {
					out = append(out, Placement{Type: t, Rotation: rotation, X: x, Y: y})
				}
			}
		}
	}
	return out
}
