package board

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// maxPieceInstances bounds one piece list: eight promoted pawns plus the
// two originals for minor pieces and rooks.
const maxPieceInstances = 10

// mailbox is the board store. The padded array and the piece lists are two
// views of the same occupancy; add and remove are the only writers, so the
// views cannot drift apart.
type mailbox struct {
	squares  [BoardSize120]Piece
	lists    [pieceKinds][maxPieceInstances]Square
	counts   [pieceKinds]int
	material [2]int
	mobility [2]int
}

// reset empties every real square and refills the sentinel border.
func (b *mailbox) reset() {
	*b = mailbox{}
	for i := range b.squares {
		if To64(Square120(i)) == NoSquare {
			b.squares[i] = OffBoard
		} else {
			b.squares[i] = NoPiece
		}
	}
}

// at returns the piece on a padded square. Indices past the array panic.
func (b *mailbox) at(sq Square120) Piece {
	if sq >= NoSquare120 {
		panic(fmt.Sprintf("board: padded square %d out of range", sq))
	}
	return b.squares[sq]
}

// list returns the compact squares holding p. The slice aliases the store
// and is only valid until the next add or remove.
func (b *mailbox) list(p Piece) []Square {
	return b.lists[p][:b.counts[p]]
}

func (b *mailbox) add(sq Square120, p Piece) {
	if !p.IsPiece() {
		panic(fmt.Sprintf("board: add of non-piece %d on %v", p, sq))
	}
	if b.at(sq) != NoPiece {
		panic(fmt.Sprintf("board: add %v on occupied square %v (holds %q)", p, sq, b.squares[sq].String()))
	}
	n := b.counts[p]
	if n == maxPieceInstances {
		panic(fmt.Sprintf("board: piece list for %v is full", p))
	}

	b.squares[sq] = p
	b.lists[p][n] = To64(sq)
	b.counts[p] = n + 1

	c := p.Color()
	b.material[c] += PieceValue[p.Type()]
	b.mobility[c] += MobilityWeight[p.Type()]
}

func (b *mailbox) remove(sq Square120, p Piece) {
	if b.at(sq) != p || !p.IsPiece() {
		panic(fmt.Sprintf("board: remove %q from %v but square holds %q", p.String(), sq, b.squares[sq].String()))
	}
	list := b.list(p)
	i := slices.Index(list, To64(sq))
	if i < 0 {
		panic(fmt.Sprintf("board: %v on %v missing from its piece list", p, sq))
	}

	// Order within a list carries no meaning, so swap with the last entry.
	last := len(list) - 1
	list[i] = list[last]
	b.counts[p] = last
	b.squares[sq] = NoPiece

	c := p.Color()
	b.material[c] -= PieceValue[p.Type()]
	b.mobility[c] -= MobilityWeight[p.Type()]
}

// verify reports the first disagreement between the array and the lists.
func (b *mailbox) verify() error {
	var material, mobility [2]int
	var seen [pieceKinds]int

	for i, p := range b.squares {
		sq := Square120(i)
		if To64(sq) == NoSquare {
			if p != OffBoard {
				return fmt.Errorf("sentinel cell %d holds %q", i, p.String())
			}
			continue
		}
		switch {
		case p == NoPiece:
			for pc := WhitePawn; pc < NoPiece; pc++ {
				if slices.Contains(b.list(pc), To64(sq)) {
					return fmt.Errorf("empty square %v listed under %v", sq, pc)
				}
			}
		case p.IsPiece():
			if !slices.Contains(b.list(p), To64(sq)) {
				return fmt.Errorf("%v on %v missing from its piece list", p, sq)
			}
			seen[p]++
			material[p.Color()] += PieceValue[p.Type()]
			mobility[p.Color()] += MobilityWeight[p.Type()]
		default:
			return fmt.Errorf("square %v holds %q", sq, p.String())
		}
	}

	for pc := WhitePawn; pc < NoPiece; pc++ {
		if seen[pc] != b.counts[pc] {
			return fmt.Errorf("%v count %d but %d on the board", pc, b.counts[pc], seen[pc])
		}
	}
	if material != b.material {
		return fmt.Errorf("material %v, recomputed %v", b.material, material)
	}
	if mobility != b.mobility {
		return fmt.Errorf("mobility %v, recomputed %v", b.mobility, mobility)
	}
	return nil
}
