package board

import "fmt"

// DefaultHistoryCapacity is the number of plies a position can undo unless
// WithHistoryCapacity says otherwise. It comfortably covers a full game
// plus a search tree hanging off its last position.
const DefaultHistoryCapacity = 1024

// Snapshot records everything UndoMove needs to reverse one move.
// Values here are authoritative: undo copies them back rather than
// recomputing.
type Snapshot struct {
	Move           Move
	Moved          Piece // piece that left the origin square, before promotion
	Captured       Piece // NoPiece if the move captured nothing
	CaptureSquare  Square
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
}

// history is a bounded stack of snapshots. Only MakeMove pushes and only
// UndoMove pops.
type history struct {
	entries []Snapshot
}

func newHistory(capacity int) history {
	if capacity < 0 {
		capacity = 0
	}
	return history{entries: make([]Snapshot, 0, capacity)}
}

func (h *history) len() int { return len(h.entries) }

func (h *history) clear() { h.entries = h.entries[:0] }

func (h *history) push(s Snapshot) {
	if len(h.entries) == cap(h.entries) {
		panic(fmt.Sprintf("board: history full (%d plies) pushing %v", cap(h.entries), s.Move))
	}
	h.entries = append(h.entries, s)
}

func (h *history) pop() Snapshot {
	n := len(h.entries)
	if n == 0 {
		panic("board: UndoMove with empty history")
	}
	s := h.entries[n-1]
	h.entries = h.entries[:n-1]
	return s
}

func (h *history) top() Snapshot {
	return h.entries[len(h.entries)-1]
}

func (h *history) clone() history {
	c := make([]Snapshot, len(h.entries), cap(h.entries))
	copy(c, h.entries)
	return history{entries: c}
}

func (h *history) equal(o *history) bool {
	if len(h.entries) != len(o.entries) {
		return false
	}
	for i := range h.entries {
		if h.entries[i] != o.entries[i] {
			return false
		}
	}
	return true
}

// HistoryFull reports whether another recorded move would overflow the
// undo stack.
func (p *Position) HistoryFull() bool {
	return p.history.len() == cap(p.history.entries)
}

// Keys appends the key of every position preceding the current one, oldest
// first, to dst. Repetition detection compares them against Key.
func (p *Position) Keys(dst []uint64) []uint64 {
	for _, s := range p.history.entries {
		dst = append(dst, s.Hash)
	}
	return dst
}

// RepetitionCount returns how many earlier positions in the recorded
// history share the current key. Only positions since the last
// irreversible move can repeat, so the scan stops there.
func (p *Position) RepetitionCount() int {
	count := 0
	entries := p.history.entries
	for i := len(entries) - 1; i >= 0 && len(entries)-i <= p.halfMove; i-- {
		if entries[i].Hash == p.hash {
			count++
		}
	}
	return count
}
