package movegen

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func mustFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	return pos
}

func runPerft(t *testing.T, pos *board.Position, tests []struct {
	depth    int
	expected int64
}) {
	t.Helper()
	start := pos.Clone()
	for _, tc := range tests {
		got, err := Perft(pos, tc.depth)
		if err != nil {
			t.Fatalf("perft(%d): %v", tc.depth, err)
		}
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
		if !pos.Equal(start) {
			t.Fatalf("perft(%d) left the position changed", tc.depth)
		}
	}
}

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	runPerft(t, board.NewPosition(), []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		// {4, 197281}, // Enable for thorough testing
	})
}

// TestPerftKiwipete tests the famous Kiwipete position with many edge cases.
// FEN: r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -
func TestPerftKiwipete(t *testing.T) {
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	runPerft(t, pos, []struct {
		depth    int
		expected int64
	}{
		{1, 48},
		{2, 2039},
		// {3, 97862}, // Enable for thorough testing
	})
}

// TestPerftPosition3 tests en passant edge cases.
// FEN: 8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -
func TestPerftPosition3(t *testing.T) {
	pos := mustFEN(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -")
	runPerft(t, pos, []struct {
		depth    int
		expected int64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
	})
}

// TestPerftPromotions covers underpromotion and promotion captures.
// FEN: n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1
func TestPerftPromotions(t *testing.T) {
	pos := mustFEN(t, "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1")
	runPerft(t, pos, []struct {
		depth    int
		expected int64
	}{
		{1, 24},
		{2, 496},
		{3, 9483},
	})
}

func TestDivideSumsToPerft(t *testing.T) {
	pos := board.NewPosition()

	counts, err := Divide(pos, 2)
	if err != nil {
		t.Fatalf("Divide: %v", err)
	}
	if len(counts) != 20 {
		t.Errorf("got %d root moves, want 20", len(counts))
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	if total != 400 {
		t.Errorf("divide total = %d, want 400", total)
	}
}

func TestLegalMovesMarksSpecialMoves(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/3pP3/8/8/8/R3K2R w KQkq d6 0 1")

	moves, err := LegalMoves(pos)
	if err != nil {
		t.Fatalf("LegalMoves: %v", err)
	}

	var castles, enPassant int
	for _, m := range moves {
		switch {
		case m.IsCastling():
			castles++
		case m.IsEnPassant():
			enPassant++
		}
	}
	if castles != 2 {
		t.Errorf("castling moves = %d, want 2", castles)
	}
	if enPassant != 1 {
		t.Errorf("en passant moves = %d, want 1", enPassant)
	}
}

func TestParseLegal(t *testing.T) {
	pos := board.NewPosition()

	if m, err := ParseLegal("g1f3", pos); err != nil || m != board.NewMove(board.G1, board.F3) {
		t.Errorf("ParseLegal(g1f3) = %v, %v", m, err)
	}
	for _, s := range []string{"g1g3", "e7e5", "e1g1", "e2e4q", "zz"} {
		if _, err := ParseLegal(s, pos); err == nil {
			t.Errorf("ParseLegal(%q) accepted an illegal move", s)
		}
	}
}
