package tetris

import "math/rand"

// Bag deals pieces with the seven-bag system: every run of seven draws
// contains each tetromino exactly once. A Bag is owned by a single
// session goroutine and is not safe for concurrent use.
type Bag struct {
	rng   *rand.Rand
	queue []PieceType
}

// NewBag returns a bag seeded for reproducible deals.
func NewBag(seed int64) *Bag {
	return &Bag{rng: rand.New(rand.NewSource(seed))}
}

// Next draws the next piece, refilling and reshuffling when the bag
// runs out.
func (b *Bag) Next() PieceType {
	if len(b.queue) == 0 {
		b.queue = append(b.queue, AllPieces...)
		b.rng.Shuffle(len(b.queue), func(i, j int) {
			b.queue[i], b.queue[j] = b.queue[j], b.queue[i]
		})
	}
	p := b.queue[len(b.queue)-1]
	b.queue = b.queue[:len(b.queue)-1]
	return p
}
