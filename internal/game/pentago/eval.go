package pentago

// Evaluate scores the board from slot's point of view: the number of
// slot's marks inside length-4 windows the opponent has not touched,
// minus the same count for the opponent. Contested windows are worth
// nothing to either side.
func (b Board) Evaluate(slot int) int {
	return b.countSequences(Cell(slot)) - b.countSequences(Cell(1-slot))
}

func (b Board) countSequences(mark Cell) int {
	score := 0
	window := func(cells [winLength]Cell) {
		own := 0
		for _, c := range cells {
			switch c {
			case mark:
				own++
			case Empty:
			default:
				return
			}
		}
		score += own
	}

	for y := 0; y < Size; y++ {
		for x := 0; x <= Size-winLength; x++ {
			window([winLength]Cell{b.Grid[y][x], b.Grid[y][x+1], b.Grid[y][x+2], b.Grid[y][x+3]})
		}
	}
	for x := 0; x < Size; x++ {
		for y := 0; y <= Size-winLength; y++ {
			window([winLength]Cell{b.Grid[y][x], b.Grid[y+1][x], b.Grid[y+2][x], b.Grid[y+3][x]})
		}
	}
	for y := 0; y <= Size-winLength; y++ {
		for x := 0; x <= Size-winLength; x++ {
			window([winLength]Cell{b.Grid[y][x], b.Grid[y+1][x+1], b.Grid[y+2][x+2], b.Grid[y+3][x+3]})
			window([winLength]Cell{b.Grid[y][x+3], b.Grid[y+1][x+2], b.Grid[y+2][x+1], b.Grid[y+3][x]})
		}
	}
	return score
}
