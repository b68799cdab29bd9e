package board

import "fmt"

// castlingKeep[sq] is the mask of rights that survive a move touching sq.
// Moving from or capturing on a king or rook home square drops the rights
// tied to it; every other square keeps them all.
var castlingKeep [64]CastlingRights

func init() {
	for sq := range castlingKeep {
		castlingKeep[sq] = AllCastling
	}
	castlingKeep[A1] &^= WhiteQueenSideCastle
	castlingKeep[H1] &^= WhiteKingSideCastle
	castlingKeep[E1] &^= WhiteKingSideCastle | WhiteQueenSideCastle
	castlingKeep[A8] &^= BlackQueenSideCastle
	castlingKeep[H8] &^= BlackKingSideCastle
	castlingKeep[E8] &^= BlackKingSideCastle | BlackQueenSideCastle
}

// castlingRookSquares returns the rook's origin and destination for a
// castling move given by the king's squares.
func castlingRookSquares(kingFrom, kingTo Square) (Square, Square) {
	rank := kingFrom.Rank()
	if kingTo > kingFrom {
		return NewSquare(7, rank), NewSquare(5, rank)
	}
	return NewSquare(0, rank), NewSquare(3, rank)
}

// enPassantVictim returns the square of the pawn taken en passant: one
// rank behind the destination from the mover's point of view.
func enPassantVictim(to Square, us Color) Square {
	if us == White {
		return to - 8
	}
	return to + 8
}

func enPassantKey(sq Square) uint64 {
	if sq == NoSquare {
		return 0
	}
	return zobristEnPassant[sq.File()]
}

// MakeMove applies m, which the caller guarantees is legal here. With
// record set, a snapshot is pushed so UndoMove can reverse the move;
// without it the move is permanent for this Position (callers exploring
// speculatively work on a Clone). Recording onto a full history panics.
func (p *Position) MakeMove(m Move, record bool) {
	if record && p.HistoryFull() {
		panic(fmt.Sprintf("board: history full (%d plies) making %v", p.history.len(), m))
	}

	us := p.sideToMove
	from, to := m.From(), m.To()
	from120, to120 := To120(from), To120(to)
	moved := p.board.at(from120)

	snap := Snapshot{
		Move:           m,
		Moved:          moved,
		Captured:       NoPiece,
		CaptureSquare:  NoSquare,
		CastlingRights: p.castling,
		EnPassant:      p.enPassant,
		HalfMoveClock:  p.halfMove,
		Hash:           p.hash,
	}

	// Old castling and en passant contributions leave the key now; the
	// new ones are added once they are known.
	p.hash ^= zobristCastling[p.castling] ^ enPassantKey(p.enPassant)

	if m.IsEnPassant() {
		snap.Captured = NewPiece(Pawn, us.Other())
		snap.CaptureSquare = enPassantVictim(to, us)
		p.removePiece(To120(snap.CaptureSquare), snap.Captured)
	} else if captured := p.board.at(to120); captured != NoPiece {
		snap.Captured = captured
		snap.CaptureSquare = to
		p.removePiece(to120, captured)
	}

	p.removePiece(from120, moved)
	if m.IsPromotion() {
		p.addPiece(to120, NewPiece(m.Promotion(), us))
	} else {
		p.addPiece(to120, moved)
	}

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(from, to)
		rook := NewPiece(Rook, us)
		p.removePiece(To120(rookFrom), rook)
		p.addPiece(To120(rookTo), rook)
	}

	p.castling &= castlingKeep[from] & castlingKeep[to]

	p.enPassant = NoSquare
	if moved.Type() == Pawn && abs(int(to)-int(from)) == 16 {
		p.enPassant = Square((int(from) + int(to)) / 2)
	}

	p.hash ^= zobristCastling[p.castling] ^ enPassantKey(p.enPassant)

	if moved.Type() == Pawn || snap.Captured != NoPiece {
		p.halfMove = 0
	} else {
		p.halfMove++
	}

	p.sideToMove = us.Other()
	p.hash ^= zobristSideToMove
	p.ply++

	if record {
		p.history.push(snap)
	}

	if DebugChecks {
		p.mustVerify("MakeMove", m)
	}
}

// MakeNullMove passes the turn. It is always recorded and is reversed by
// UndoMove like any other move.
func (p *Position) MakeNullMove() {
	if p.HistoryFull() {
		panic(fmt.Sprintf("board: history full (%d plies) making null move", p.history.len()))
	}
	p.history.push(Snapshot{
		Move:           NoMove,
		Moved:          NoPiece,
		Captured:       NoPiece,
		CaptureSquare:  NoSquare,
		CastlingRights: p.castling,
		EnPassant:      p.enPassant,
		HalfMoveClock:  p.halfMove,
		Hash:           p.hash,
	})

	p.hash ^= enPassantKey(p.enPassant)
	p.enPassant = NoSquare
	p.halfMove++
	p.sideToMove = p.sideToMove.Other()
	p.hash ^= zobristSideToMove
	p.ply++
}

// UndoMove reverses the most recent recorded move. The position afterwards
// is identical to the one MakeMove started from. Undo on an empty history
// panics.
func (p *Position) UndoMove() {
	s := p.history.pop()
	m := s.Move

	if m != NoMove {
		from120, to120 := To120(m.From()), To120(m.To())

		if m.IsCastling() {
			rookFrom, rookTo := castlingRookSquares(m.From(), m.To())
			rook := NewPiece(Rook, s.Moved.Color())
			p.removePiece(To120(rookTo), rook)
			p.addPiece(To120(rookFrom), rook)
		}

		p.removePiece(to120, p.board.at(to120))
		p.addPiece(from120, s.Moved)

		if s.Captured != NoPiece {
			p.addPiece(To120(s.CaptureSquare), s.Captured)
		}
	}

	// The piece keys were toggled back by the board writes above. Doing
	// the same for the scalar features must land on the recorded key.
	p.hash ^= zobristCastling[p.castling] ^ zobristCastling[s.CastlingRights]
	p.hash ^= enPassantKey(p.enPassant) ^ enPassantKey(s.EnPassant)
	p.hash ^= zobristSideToMove
	if DebugChecks && p.hash != s.Hash {
		panic(fmt.Sprintf("board: UndoMove %v: key drifted to %016x, recorded %016x", m, p.hash, s.Hash))
	}

	p.castling = s.CastlingRights
	p.enPassant = s.EnPassant
	p.halfMove = s.HalfMoveClock
	p.hash = s.Hash
	p.sideToMove = p.sideToMove.Other()
	p.ply--

	if DebugChecks {
		p.mustVerify("UndoMove", m)
	}
}
