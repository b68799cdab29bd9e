// Package board holds the authoritative state of a chess position: a padded
// mailbox with piece lists, the make/undo state machine and the Zobrist key.
package board

import "fmt"

// Square is a compact board index (0-63) used by piece lists and hashing.
// Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// Square120 is an index into the padded 10x12 mailbox. The two outer ranks
// on each end and the outer files are sentinel cells, so a knight or
// sliding step from any real square lands inside the array.
type Square120 uint8

// Padded board geometry.
const (
	BoardSize120 = 120
	NoSquare120  Square120 = BoardSize120
)

var (
	sq120To64 [BoardSize120]Square
	sq64To120 [64]Square120
)

func init() {
	for i := range sq120To64 {
		sq120To64[i] = NoSquare
	}
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			sq120 := NewSquare120(file, rank)
			sq64To120[sq] = sq120
			sq120To64[sq120] = sq
		}
	}
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// NewSquare120 returns the padded index of file and rank (0-indexed).
func NewSquare120(file, rank int) Square120 {
	return Square120(file + 21 + rank*10)
}

// To120 converts a compact square to its padded index.
// Anything outside 0-63 yields NoSquare120.
func To120(sq Square) Square120 {
	if sq >= NoSquare {
		return NoSquare120
	}
	return sq64To120[sq]
}

// To64 converts a padded index to a compact square.
// Sentinel cells and out-of-range values yield NoSquare.
func To64(sq Square120) Square {
	if sq >= NoSquare120 {
		return NoSquare
	}
	return sq120To64[sq]
}

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, rank), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// RelativeRank returns the rank from a given color's perspective.
// For White, rank 0 is the 1st rank; for Black, rank 0 is the 8th rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}

// IsValid reports whether the padded index names a real board square.
func (sq Square120) IsValid() bool {
	return To64(sq) != NoSquare
}

// String returns the algebraic name of the square, or "-" for sentinels.
func (sq Square120) String() string {
	return To64(sq).String()
}
