package storage

import (
	"errors"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func openTest(t *testing.T) *Archive {
	t.Helper()
	a, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestPositionArchive(t *testing.T) {
	a := openTest(t)

	pos, err := Replay(board.StartFEN, []string{"e2e4", "c7c5", "g1f3"})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	if ok, err := a.HasPosition(pos.Key()); err != nil || ok {
		t.Fatalf("HasPosition before save = %v, %v", ok, err)
	}
	if err := a.SavePosition(pos); err != nil {
		t.Fatalf("SavePosition: %v", err)
	}
	if ok, err := a.HasPosition(pos.Key()); err != nil || !ok {
		t.Fatalf("HasPosition after save = %v, %v", ok, err)
	}

	loaded, err := a.LoadPosition(pos.Key())
	if err != nil {
		t.Fatalf("LoadPosition: %v", err)
	}
	if loaded.FEN() != pos.FEN() || loaded.Key() != pos.Key() {
		t.Errorf("loaded %q (%016x), want %q (%016x)", loaded.FEN(), loaded.Key(), pos.FEN(), pos.Key())
	}
	if loaded.HistoryLen() != 0 {
		t.Errorf("loaded history = %d, want 0", loaded.HistoryLen())
	}
}

func TestLoadMissingPosition(t *testing.T) {
	a := openTest(t)

	_, err := a.LoadPosition(0xdeadbeef)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGameArchive(t *testing.T) {
	a := openTest(t)

	moves := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "g8f6", "e1g1"}
	g, err := a.SaveGame("italian", board.StartFEN, moves)
	if err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if _, err := a.SaveGame("scandi", board.StartFEN, []string{"e2e4", "d7d5", "e4d5"}); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	loaded, err := a.LoadGame("italian")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if len(loaded.Moves) != len(moves) || loaded.FinalKey != g.FinalKey {
		t.Errorf("loaded %d moves, key %016x; want %d, %016x", len(loaded.Moves), loaded.FinalKey, len(moves), g.FinalKey)
	}

	pos, err := loaded.Position()
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if pos.Key() != g.FinalKey || pos.HistoryLen() != len(moves) {
		t.Errorf("replayed key %016x history %d", pos.Key(), pos.HistoryLen())
	}
	if pos.PieceAt(board.G1) != board.WhiteKing || pos.PieceAt(board.F1) != board.WhiteRook {
		t.Error("castling not replayed")
	}

	for pos.HistoryLen() > 0 {
		pos.UndoMove()
	}
	if pos.FEN() != board.StartFEN {
		t.Errorf("unwound to %q", pos.FEN())
	}

	names, err := a.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(names) != 2 || names[0] != "italian" || names[1] != "scandi" {
		t.Errorf("ListGames = %v", names)
	}
}

func TestSaveGameRejectsBadInput(t *testing.T) {
	a := openTest(t)

	tests := []struct {
		name  string
		fen   string
		moves []string
	}{
		{"", board.StartFEN, nil},
		{"a/b", board.StartFEN, nil},
		{"badfen", "not a fen", nil},
		{"illegal", board.StartFEN, []string{"e2e5"}},
		{"nopiece", board.StartFEN, []string{"e3e4"}},
		{"wrongside", board.StartFEN, []string{"e7e5"}},
	}

	for _, tc := range tests {
		if _, err := a.SaveGame(tc.name, tc.fen, tc.moves); err == nil {
			t.Errorf("SaveGame(%q) accepted bad input", tc.name)
		}
	}
	if _, err := a.LoadGame("illegal"); !errors.Is(err, ErrNotFound) {
		t.Errorf("rejected game was stored: %v", err)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	a, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pos := board.NewPosition()
	if err := a.SavePosition(pos); err != nil {
		t.Fatalf("SavePosition: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	a, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer a.Close()
	if ok, err := a.HasPosition(pos.Key()); err != nil || !ok {
		t.Errorf("position lost across reopen: %v, %v", ok, err)
	}
}
