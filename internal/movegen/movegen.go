// Package movegen supplies legal moves for a board.Position by asking
// dragontoothmg, and drives make/undo over them for perft and random walks.
package movegen

import (
	"fmt"
	"math/rand"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/slices"

	"github.com/hailam/chesscore/internal/board"
)

// LegalMoves returns the legal moves in pos, sorted by encoding so the
// order is stable across runs.
func LegalMoves(pos *board.Position) ([]board.Move, error) {
	dt := dragontoothmg.ParseFen(pos.FEN())
	generated := dt.GenerateLegalMoves()

	moves := make([]board.Move, 0, len(generated))
	for i := range generated {
		uci := generated[i].String()
		m, err := board.ParseMove(uci, pos)
		if err != nil {
			return nil, fmt.Errorf("movegen: converting %s: %w", uci, err)
		}
		moves = append(moves, m)
	}
	slices.Sort(moves)
	return moves, nil
}

// ParseLegal parses a UCI move and checks that it is legal in pos.
func ParseLegal(s string, pos *board.Position) (board.Move, error) {
	m, err := board.ParseMove(s, pos)
	if err != nil {
		return board.NoMove, err
	}
	legal, err := LegalMoves(pos)
	if err != nil {
		return board.NoMove, err
	}
	if !slices.Contains(legal, m) {
		return board.NoMove, fmt.Errorf("illegal move %s in %s", s, pos.FEN())
	}
	return m, nil
}

// Perft counts the number of leaf nodes at the given depth.
// This is the standard way to verify move generation correctness; here it
// also exercises every make/undo pair along the way.
func Perft(pos *board.Position, depth int) (int64, error) {
	if depth == 0 {
		return 1, nil
	}

	moves, err := LegalMoves(pos)
	if err != nil {
		return 0, err
	}
	if depth == 1 {
		return int64(len(moves)), nil
	}

	var nodes int64
	for _, m := range moves {
		pos.MakeMove(m, true)
		n, err := Perft(pos, depth-1)
		pos.UndoMove()
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}

// Divide returns the perft count below each root move.
func Divide(pos *board.Position, depth int) (map[board.Move]int64, error) {
	moves, err := LegalMoves(pos)
	if err != nil {
		return nil, err
	}

	counts := make(map[board.Move]int64, len(moves))
	for _, m := range moves {
		pos.MakeMove(m, true)
		n, err := Perft(pos, depth-1)
		pos.UndoMove()
		if err != nil {
			return nil, err
		}
		counts[m] = n
	}
	return counts, nil
}

// RandomWalk plays up to plies random legal moves on pos, recording each
// one, and returns the moves played. It stops early at mate, stalemate or
// when the history is full.
func RandomWalk(pos *board.Position, plies int, rng *rand.Rand) ([]board.Move, error) {
	played := make([]board.Move, 0, plies)
	for len(played) < plies && !pos.HistoryFull() {
		moves, err := LegalMoves(pos)
		if err != nil {
			return played, err
		}
		if len(moves) == 0 {
			break
		}
		m := moves[rng.Intn(len(moves))]
		pos.MakeMove(m, true)
		played = append(played, m)
	}
	return played, nil
}
