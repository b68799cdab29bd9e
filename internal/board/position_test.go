package board

import "testing"

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN %q: %v", fen, err)
	}
	return pos
}

func TestNewPosition(t *testing.T) {
	pos := NewPosition()

	if pos.SideToMove() != White {
		t.Errorf("side to move = %v", pos.SideToMove())
	}
	if pos.CastlingRights() != AllCastling {
		t.Errorf("castling = %v", pos.CastlingRights())
	}
	if pos.EnPassant() != NoSquare || pos.HalfMoveClock() != 0 || pos.Ply() != 0 {
		t.Errorf("ep=%v clock=%d ply=%d", pos.EnPassant(), pos.HalfMoveClock(), pos.Ply())
	}
	if pos.FEN() != StartFEN {
		t.Errorf("FEN = %q, want %q", pos.FEN(), StartFEN)
	}
	if pos.Key() != pos.ComputeHash() || pos.Key() == 0 {
		t.Errorf("key %016x, recomputed %016x", pos.Key(), pos.ComputeHash())
	}
	for c := White; c <= Black; c++ {
		if pos.Material(c) != 24000 {
			t.Errorf("%v material = %d, want 24000", c, pos.Material(c))
		}
		if pos.Mobility(c) != 113 {
			t.Errorf("%v mobility = %d, want 113", c, pos.Mobility(c))
		}
	}
	if pos.PieceCount(WhitePawn) != 8 || pos.PieceCount(BlackKing) != 1 {
		t.Errorf("counts: white pawns %d, black kings %d", pos.PieceCount(WhitePawn), pos.PieceCount(BlackKing))
	}
	if pos.KingSquare(White) != E1 || pos.KingSquare(Black) != E8 {
		t.Errorf("kings on %v and %v", pos.KingSquare(White), pos.KingSquare(Black))
	}
	if err := pos.Verify(); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestPieceLookups(t *testing.T) {
	pos := NewPosition()

	if got := pos.PieceAt(D1); got != WhiteQueen {
		t.Errorf("PieceAt(d1) = %v", got)
	}
	if got := pos.PieceAt120(To120(D8)); got != BlackQueen {
		t.Errorf("PieceAt120(d8) = %v", got)
	}
	if got := pos.PieceAt120(0); got != OffBoard {
		t.Errorf("PieceAt120(0) = %v, want OffBoard", got)
	}
	if got := pos.PieceAt(E4); got != NoPiece {
		t.Errorf("PieceAt(e4) = %v", got)
	}

	mustPanic(t, "PieceAt(NoSquare)", func() { pos.PieceAt(NoSquare) })
	mustPanic(t, "PieceAt120(NoSquare120)", func() { pos.PieceAt120(NoSquare120) })
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustFEN(t, fen)
			if got := pos.FEN(); got != fen {
				t.Errorf("FEN() = %q", got)
			}
			if err := pos.Verify(); err != nil {
				t.Errorf("Verify: %v", err)
			}
		})
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e3 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0",
		"NNNNNNNN/NNN5/8/8/8/8/8/k6K w - - 0 1",
	}

	for _, fen := range bad {
		if _, err := NewPositionFromFEN(fen); err == nil {
			t.Errorf("NewPositionFromFEN(%q) accepted bad input", fen)
		}
	}
}

func TestPlyFromFullMoveNumber(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/4K3 b - - 7 12")
	if pos.Ply() != 23 {
		t.Errorf("ply = %d, want 23", pos.Ply())
	}
	if pos.FullMoveNumber() != 12 {
		t.Errorf("full move = %d, want 12", pos.FullMoveNumber())
	}
}

func TestClear(t *testing.T) {
	pos := NewPosition()
	pos.MakeMove(NewMove(E2, E4), true)
	pos.Clear()

	if pos.HistoryLen() != 0 || pos.Ply() != 0 || pos.Key() != 0 {
		t.Errorf("history=%d ply=%d key=%x after Clear", pos.HistoryLen(), pos.Ply(), pos.Key())
	}
	for sq := A1; sq <= H8; sq++ {
		if !pos.IsEmpty(sq) {
			t.Fatalf("%v not empty after Clear", sq)
		}
	}
	if pos.Material(White) != 0 || pos.Mobility(Black) != 0 {
		t.Error("accumulators not reset")
	}
	if err := pos.Verify(); err != nil {
		t.Errorf("Verify: %v", err)
	}
	mustPanic(t, "UndoMove after Clear", pos.UndoMove)
}

func TestCloneIsIndependent(t *testing.T) {
	pos := NewPosition()
	pos.MakeMove(NewMove(E2, E4), true)

	clone := pos.Clone()
	if !clone.Equal(pos) {
		t.Fatal("clone differs from original")
	}

	clone.MakeMove(NewMove(E7, E5), true)
	if pos.HistoryLen() != 1 || pos.PieceAt(E5) != NoPiece {
		t.Error("move on clone leaked into original")
	}

	clone.UndoMove()
	clone.UndoMove()
	if pos.HistoryLen() != 1 || pos.PieceAt(E4) != WhitePawn {
		t.Error("undo on clone leaked into original")
	}
}

func TestExportReset(t *testing.T) {
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	setup := pos.Export()

	other := NewPosition()
	if err := other.Reset(setup); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if !other.Equal(pos) {
		t.Error("Reset(Export()) does not reproduce the position")
	}
}
