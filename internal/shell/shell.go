// Package shell is a line-oriented command loop over a board.Position,
// for driving and inspecting make/undo by hand or from scripts.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/movegen"
	"github.com/hailam/chesscore/internal/storage"
)

// Shell reads commands from in and writes replies to out.
type Shell struct {
	in      io.Reader
	out     io.Writer
	archive *storage.Archive // nil disables save/load

	position *board.Position
	startFEN string
	moves    []string // UCI moves played since startFEN, for saving
	opts     []board.Option
}

// New creates a shell on the starting position. archive may be nil.
func New(in io.Reader, out io.Writer, archive *storage.Archive, opts ...board.Option) *Shell {
	return &Shell{
		in:       in,
		out:      out,
		archive:  archive,
		position: board.NewPosition(opts...),
		startFEN: board.StartFEN,
		opts:     opts,
	}
}

// Position returns the current position.
func (s *Shell) Position() *board.Position {
	return s.position
}

// Run processes commands until quit or end of input.
func (s *Shell) Run() error {
	scanner := bufio.NewScanner(s.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		var err error
		switch cmd {
		case "position":
			err = s.handlePosition(args)
		case "move":
			err = s.handleMove(args)
		case "undo":
			err = s.handleUndo(args)
		case "d":
			fmt.Fprintln(s.out, s.position.String())
		case "fen":
			fmt.Fprintln(s.out, s.position.FEN())
		case "key":
			fmt.Fprintf(s.out, "%016x\n", s.position.Key())
		case "moves":
			err = s.handleMoves()
		case "perft":
			err = s.handlePerft(args, false)
		case "divide":
			err = s.handlePerft(args, true)
		case "verify":
			err = s.handleVerify()
		case "save":
			err = s.handleSave(args)
		case "load":
			err = s.handleLoad(args)
		case "games":
			err = s.handleGames()
		case "quit":
			return nil
		default:
			err = fmt.Errorf("unknown command %q", cmd)
		}

		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}

	return scanner.Err()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (s *Shell) handlePosition(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("position: need startpos or fen")
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var fen string
	switch args[0] {
	case "startpos":
		fen = board.StartFEN
	case "fen":
		fen = strings.Join(args[1:movesAt], " ")
	default:
		return fmt.Errorf("position: unknown kind %q", args[0])
	}

	pos, err := board.NewPositionFromFEN(fen, s.opts...)
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}
	s.position = pos
	s.startFEN = fen
	s.moves = s.moves[:0]

	if movesAt < len(args) {
		return s.handleMove(args[movesAt+1:])
	}
	return nil
}

// handleMove applies moves in order, stopping at the first bad one.
func (s *Shell) handleMove(args []string) error {
	for _, str := range args {
		if s.position.HistoryFull() {
			return fmt.Errorf("move %s: history full", str)
		}
		m, err := movegen.ParseLegal(str, s.position)
		if err != nil {
			return err
		}
		s.position.MakeMove(m, true)
		s.moves = append(s.moves, m.String())
	}
	return nil
}

func (s *Shell) handleUndo(args []string) error {
	n := 1
	if len(args) > 0 {
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("undo: bad count %q", args[0])
		}
	}
	if n > s.position.HistoryLen() {
		return fmt.Errorf("undo: only %d moves to undo", s.position.HistoryLen())
	}
	for i := 0; i < n; i++ {
		s.position.UndoMove()
		s.moves = s.moves[:len(s.moves)-1]
	}
	return nil
}

func (s *Shell) handleMoves() error {
	moves, err := movegen.LegalMoves(s.position)
	if err != nil {
		return err
	}
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	fmt.Fprintf(s.out, "%d: %s\n", len(moves), strings.Join(strs, " "))
	return nil
}

func (s *Shell) handlePerft(args []string, divide bool) error {
	depth := 1
	if len(args) > 0 {
		var err error
		depth, err = strconv.Atoi(args[0])
		if err != nil || depth < 1 {
			return fmt.Errorf("perft: bad depth %q", args[0])
		}
	}

	start := time.Now()
	if !divide {
		nodes, err := movegen.Perft(s.position, depth)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "nodes %d time %dms\n", nodes, time.Since(start).Milliseconds())
		return nil
	}

	counts, err := movegen.Divide(s.position, depth)
	if err != nil {
		return err
	}
	moves, err := movegen.LegalMoves(s.position)
	if err != nil {
		return err
	}
	var total int64
	for _, m := range moves {
		fmt.Fprintf(s.out, "%s: %d\n", m, counts[m])
		total += counts[m]
	}
	fmt.Fprintf(s.out, "nodes %d time %dms\n", total, time.Since(start).Milliseconds())
	return nil
}

func (s *Shell) handleVerify() error {
	if err := s.position.Verify(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "ok")
	return nil
}

func (s *Shell) handleSave(args []string) error {
	if s.archive == nil {
		return fmt.Errorf("save: no archive")
	}
	if len(args) != 1 {
		return fmt.Errorf("save: need a name")
	}
	g, err := s.archive.SaveGame(args[0], s.startFEN, s.moves)
	if err != nil {
		return err
	}
	if err := s.archive.SavePosition(s.position); err != nil {
		return err
	}
	log.Printf("[shell] Saved game %q (%d moves, key %016x)", g.Name, len(g.Moves), g.FinalKey)
	fmt.Fprintf(s.out, "saved %s %016x\n", g.Name, g.FinalKey)
	return nil
}

func (s *Shell) handleLoad(args []string) error {
	if s.archive == nil {
		return fmt.Errorf("load: no archive")
	}
	if len(args) != 1 {
		return fmt.Errorf("load: need a name")
	}
	g, err := s.archive.LoadGame(args[0])
	if err != nil {
		return err
	}
	pos, err := g.Position(s.opts...)
	if err != nil {
		return err
	}
	s.position = pos
	s.startFEN = g.StartFEN
	s.moves = append(s.moves[:0], g.Moves...)
	fmt.Fprintf(s.out, "loaded %s %016x\n", g.Name, pos.Key())
	return nil
}

func (s *Shell) handleGames() error {
	if s.archive == nil {
		return fmt.Errorf("games: no archive")
	}
	names, err := s.archive.ListGames()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(s.out, name)
	}
	return nil
}
