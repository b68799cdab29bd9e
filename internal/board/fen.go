package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Setup is a complete position description in plain values. It is what
// the FEN reader produces and what Reset consumes; Export produces one
// back from a live Position.
type Setup struct {
	Board          [64]Piece
	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StartSetup returns the standard initial position.
func StartSetup() Setup {
	s := Setup{
		SideToMove:     White,
		Castling:       AllCastling,
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	for sq := range s.Board {
		s.Board[sq] = NoPiece
	}
	for file := 0; file < 8; file++ {
		s.Board[NewSquare(file, 0)] = NewPiece(backRank[file], White)
		s.Board[NewSquare(file, 1)] = WhitePawn
		s.Board[NewSquare(file, 6)] = BlackPawn
		s.Board[NewSquare(file, 7)] = NewPiece(backRank[file], Black)
	}
	return s
}

// Reset replaces the whole position with s and clears the history. On
// error the position is left cleared.
func (p *Position) Reset(s Setup) error {
	p.Clear()

	if s.SideToMove != White && s.SideToMove != Black {
		return fmt.Errorf("invalid side to move: %d", s.SideToMove)
	}
	if s.Castling&^AllCastling != 0 {
		return fmt.Errorf("invalid castling rights: %#x", uint8(s.Castling))
	}
	if s.EnPassant != NoSquare {
		if !s.EnPassant.IsValid() || s.EnPassant.RelativeRank(s.SideToMove) != 5 {
			return fmt.Errorf("invalid en passant square: %v", s.EnPassant)
		}
	}
	if s.HalfMoveClock < 0 {
		return fmt.Errorf("invalid half-move clock: %d", s.HalfMoveClock)
	}
	if s.FullMoveNumber < 1 {
		return fmt.Errorf("invalid full-move number: %d", s.FullMoveNumber)
	}

	for sq, pc := range s.Board {
		if pc == NoPiece {
			continue
		}
		if !pc.IsPiece() {
			p.Clear()
			return fmt.Errorf("invalid piece %d on %v", pc, Square(sq))
		}
		if p.board.counts[pc] == maxPieceInstances {
			p.Clear()
			return fmt.Errorf("too many %v pieces", pc)
		}
		p.board.add(To120(Square(sq)), pc)
	}

	p.sideToMove = s.SideToMove
	p.castling = s.Castling
	p.enPassant = s.EnPassant
	p.halfMove = s.HalfMoveClock
	p.ply = 2 * (s.FullMoveNumber - 1)
	if s.SideToMove == Black {
		p.ply++
	}
	p.hash = p.ComputeHash()
	return nil
}

// Export returns the current position as a Setup.
func (p *Position) Export() Setup {
	s := Setup{
		SideToMove:     p.sideToMove,
		Castling:       p.castling,
		EnPassant:      p.enPassant,
		HalfMoveClock:  p.halfMove,
		FullMoveNumber: p.FullMoveNumber(),
	}
	for sq := A1; sq <= H8; sq++ {
		s.Board[sq] = p.PieceAt(sq)
	}
	return s
}

// SetFEN resets the position from a FEN string.
func (p *Position) SetFEN(fen string) error {
	s, err := ParseFEN(fen)
	if err != nil {
		return err
	}
	return p.Reset(s)
}

// ParseFEN parses a FEN string into a Setup.
func ParseFEN(fen string) (Setup, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return Setup{}, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	s := Setup{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(&s, parts[0]); err != nil {
		return Setup{}, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		s.SideToMove = White
	case "b":
		s.SideToMove = Black
	default:
		return Setup{}, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	// Parse castling rights (field 2)
	cr, err := parseCastlingRights(parts[2])
	if err != nil {
		return Setup{}, err
	}
	s.Castling = cr

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return Setup{}, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		s.EnPassant = sq
	}

	// Parse half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return Setup{}, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		s.HalfMoveClock = hmc
	}

	// Parse full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return Setup{}, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		s.FullMoveNumber = fmn
	}

	return s, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(s *Setup, placement string) error {
	for sq := range s.Board {
		s.Board[sq] = NoPiece
	}

	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				s.Board[NewSquare(file, rank)] = piece
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(castling string) (CastlingRights, error) {
	if castling == "-" {
		return NoCastling, nil
	}

	var cr CastlingRights
	for _, c := range castling {
		switch c {
		case 'K':
			cr |= WhiteKingSideCastle
		case 'Q':
			cr |= WhiteQueenSideCastle
		case 'k':
			cr |= BlackKingSideCastle
		case 'q':
			cr |= BlackQueenSideCastle
		default:
			return NoCastling, fmt.Errorf("invalid castling character: %c", c)
		}
	}

	return cr, nil
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	return p.Export().FEN()
}

// FEN returns the FEN representation of the setup.
func (s Setup) FEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := s.Board[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteString(piece.String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if s.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(s.Castling.String())

	sb.WriteByte(' ')
	sb.WriteString(s.EnPassant.String())

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(s.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(s.FullMoveNumber))

	return sb.String()
}
