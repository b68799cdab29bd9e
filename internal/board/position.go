package board

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// FiftyMoveLimit is the halfmove clock value at which the fifty-move rule
// allows a draw claim.
const FiftyMoveLimit = 100

// DebugChecks runs Verify after every MakeMove and UndoMove and panics on
// the first broken invariant. It is far too slow for search.
var DebugChecks = false

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// Position is the authoritative game state. The zero value is not usable;
// construct with NewPosition or NewPositionFromFEN.
//
// A Position must not be mutated from more than one goroutine. Parallel
// searchers each take a Clone.
type Position struct {
	board      mailbox
	sideToMove Color
	castling   CastlingRights
	enPassant  Square // NoSquare if none
	halfMove   int    // plies since the last capture or pawn move
	ply        int    // plies since game start
	hash       uint64
	history    history
}

// Option configures a new Position.
type Option func(*Position)

// WithHistoryCapacity sets how many plies can be undone. MakeMove panics
// once the stack is full.
func WithHistoryCapacity(n int) Option {
	return func(p *Position) {
		p.history = newHistory(n)
	}
}

// NewPosition creates the starting position.
func NewPosition(opts ...Option) *Position {
	p := newPosition(opts)
	if err := p.Reset(StartSetup()); err != nil {
		panic(err)
	}
	return p
}

// NewPositionFromFEN creates a position from a FEN string.
func NewPositionFromFEN(fen string, opts ...Option) (*Position, error) {
	setup, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	p := newPosition(opts)
	if err := p.Reset(setup); err != nil {
		return nil, err
	}
	return p, nil
}

func newPosition(opts []Option) *Position {
	p := &Position{history: newHistory(DefaultHistoryCapacity)}
	for _, opt := range opts {
		opt(p)
	}
	p.Clear()
	return p
}

// Clear resets the position to an empty board with no history.
func (p *Position) Clear() {
	p.board.reset()
	p.sideToMove = White
	p.castling = NoCastling
	p.enPassant = NoSquare
	p.halfMove = 0
	p.ply = 0
	p.hash = 0
	p.history.clear()
}

// Clone returns an independent deep copy, history included.
func (p *Position) Clone() *Position {
	c := *p
	c.history = p.history.clone()
	return &c
}

// PieceAt returns the piece on a compact square, or NoPiece if empty.
// Passing a square outside 0-63 panics.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		panic(fmt.Sprintf("board: PieceAt(%d): square out of range", sq))
	}
	return p.board.squares[To120(sq)]
}

// PieceAt120 returns the piece on a padded square. Sentinel cells report
// OffBoard; indices past the padded board panic.
func (p *Position) PieceAt120(sq Square120) Piece {
	return p.board.at(sq)
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.PieceAt(sq) == NoPiece
}

// Key returns the Zobrist key of the position.
func (p *Position) Key() uint64 { return p.hash }

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color { return p.sideToMove }

// CastlingRights returns the rights still held.
func (p *Position) CastlingRights() CastlingRights { return p.castling }

// EnPassant returns the en passant target square, or NoSquare.
func (p *Position) EnPassant() Square { return p.enPassant }

// HalfMoveClock returns the plies since the last capture or pawn move.
func (p *Position) HalfMoveClock() int { return p.halfMove }

// Ply returns the number of plies since the start of the game.
func (p *Position) Ply() int { return p.ply }

// FullMoveNumber returns the FEN move number derived from the ply count.
func (p *Position) FullMoveNumber() int { return p.ply/2 + 1 }

// IsFiftyMoveDraw reports whether the fifty-move rule has been reached.
func (p *Position) IsFiftyMoveDraw() bool { return p.halfMove >= FiftyMoveLimit }

// Material returns the summed piece values of c, king included.
func (p *Position) Material(c Color) int { return p.board.material[c] }

// Mobility returns the mobility estimate of c (see MobilityWeight).
func (p *Position) Mobility(c Color) int { return p.board.mobility[c] }

// PieceCount returns how many instances of pc are on the board.
func (p *Position) PieceCount(pc Piece) int {
	if !pc.IsPiece() {
		return 0
	}
	return p.board.counts[pc]
}

// PieceSquares appends the squares holding pc to dst. List order is
// arbitrary and changes across make/undo.
func (p *Position) PieceSquares(pc Piece, dst []Square) []Square {
	if !pc.IsPiece() {
		return dst
	}
	return append(dst, p.board.list(pc)...)
}

// KingSquare returns the square of c's king, or NoSquare if absent.
func (p *Position) KingSquare(c Color) Square {
	list := p.board.list(NewPiece(King, c))
	if len(list) == 0 {
		return NoSquare
	}
	return list[0]
}

// HistoryLen returns the number of moves that can currently be undone.
func (p *Position) HistoryLen() int { return p.history.len() }

// LastMove returns the most recent recorded move, or NoMove.
func (p *Position) LastMove() Move {
	if p.history.len() == 0 {
		return NoMove
	}
	return p.history.top().Move
}

// addPiece and removePiece are the only board writers used by the move
// applier. Each toggles the piece-square key along with the store.
func (p *Position) addPiece(sq Square120, pc Piece) {
	p.board.add(sq, pc)
	p.hash ^= zobristPiece[pc][To64(sq)]
}

func (p *Position) removePiece(sq Square120, pc Piece) {
	p.board.remove(sq, pc)
	p.hash ^= zobristPiece[pc][To64(sq)]
}

// Equal reports whether two positions hold the same state: board, piece
// lists as sets, counters, key, accumulators and undo history.
func (p *Position) Equal(o *Position) bool {
	if p.board.squares != o.board.squares ||
		p.board.counts != o.board.counts ||
		p.board.material != o.board.material ||
		p.board.mobility != o.board.mobility {
		return false
	}
	for pc := WhitePawn; pc < NoPiece; pc++ {
		a := slices.Clone(p.board.list(pc))
		b := slices.Clone(o.board.list(pc))
		slices.Sort(a)
		slices.Sort(b)
		if !slices.Equal(a, b) {
			return false
		}
	}
	return p.sideToMove == o.sideToMove &&
		p.castling == o.castling &&
		p.enPassant == o.enPassant &&
		p.halfMove == o.halfMove &&
		p.ply == o.ply &&
		p.hash == o.hash &&
		p.history.equal(&o.history)
}

// Verify checks every invariant the position maintains: array and piece
// lists agree, counts and accumulators match the board, and the key equals
// a from-scratch recomputation.
func (p *Position) Verify() error {
	if err := p.board.verify(); err != nil {
		return fmt.Errorf("board store: %w", err)
	}
	if p.enPassant != NoSquare {
		rank := p.enPassant.Rank()
		if rank != 2 && rank != 5 {
			return fmt.Errorf("en passant target %v not on rank 3 or 6", p.enPassant)
		}
	}
	if p.castling&^AllCastling != 0 {
		return fmt.Errorf("castling rights %#x out of range", uint8(p.castling))
	}
	if want := p.ComputeHash(); want != p.hash {
		return fmt.Errorf("key %016x, recomputed %016x", p.hash, want)
	}
	return nil
}

func (p *Position) mustVerify(op string, m Move) {
	if err := p.Verify(); err != nil {
		panic(fmt.Sprintf("board: %s %v: %v", op, m, err))
	}
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.enPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.halfMove)
	fmt.Fprintf(&sb, "Ply: %d\n", p.ply)
	fmt.Fprintf(&sb, "Material: %d / %d\n", p.board.material[White], p.board.material[Black])
	fmt.Fprintf(&sb, "Hash: %016x\n", p.hash)
	return sb.String()
}
