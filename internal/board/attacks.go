package board

// Step offsets in the padded board. A step that leaves the real board
// lands on an OffBoard cell, so walks need no bounds checks.
var (
	knightSteps = [8]int{-21, -19, -12, -8, 8, 12, 19, 21}
	kingSteps   = [8]int{-11, -10, -9, -1, 1, 9, 10, 11}
	rookSteps   = [4]int{-10, -1, 1, 10}
	bishopSteps = [4]int{-11, -9, 9, 11}
)

// IsSquareAttacked returns true if the square is attacked by the given color.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	target := int(To120(sq))
	b := &p.board.squares

	// Pawns attack diagonally forward, so look one rank back from the target.
	if byColor == White {
		if b[target-9] == WhitePawn || b[target-11] == WhitePawn {
			return true
		}
	} else if b[target+9] == BlackPawn || b[target+11] == BlackPawn {
		return true
	}

	knight, king := NewPiece(Knight, byColor), NewPiece(King, byColor)
	for _, d := range knightSteps {
		if b[target+d] == knight {
			return true
		}
	}
	for _, d := range kingSteps {
		if b[target+d] == king {
			return true
		}
	}

	queen := NewPiece(Queen, byColor)
	if p.slides(target, rookSteps[:], NewPiece(Rook, byColor), queen) ||
		p.slides(target, bishopSteps[:], NewPiece(Bishop, byColor), queen) {
		return true
	}
	return false
}

// slides walks each ray from target until the first occupied cell and
// reports whether that cell holds one of the two sliders.
func (p *Position) slides(target int, steps []int, slider, queen Piece) bool {
	b := &p.board.squares
	for _, d := range steps {
		for s := target + d; ; s += d {
			pc := b[s]
			if pc == NoPiece {
				continue
			}
			if pc == slider || pc == queen {
				return true
			}
			break
		}
	}
	return false
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	ksq := p.KingSquare(p.sideToMove)
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, p.sideToMove.Other())
}
