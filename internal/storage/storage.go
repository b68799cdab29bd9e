package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/exp/slices"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/movegen"
)

// Key prefixes
const (
	prefixPosition = "pos/"
	prefixGame     = "game/"
)

// ErrNotFound is returned when a key has no record.
var ErrNotFound = errors.New("storage: not found")

// PositionRecord is the stored form of an exported position.
type PositionRecord struct {
	Key     uint64    `json:"key"`
	FEN     string    `json:"fen"`
	Ply     int       `json:"ply"`
	SavedAt time.Time `json:"saved_at"`
}

// Game is a start position plus the moves played from it in UCI notation.
type Game struct {
	Name     string    `json:"name"`
	StartFEN string    `json:"start_fen"`
	Moves    []string  `json:"moves"`
	FinalKey uint64    `json:"final_key"`
	SavedAt  time.Time `json:"saved_at"`
}

// Archive wraps BadgerDB for persistent storage
type Archive struct {
	db *badger.DB
}

// Open opens (or creates) an archive in dir. An empty dir uses
// GetDatabaseDir.
func Open(dir string) (*Archive, error) {
	if dir == "" {
		var err error
		dir, err = GetDatabaseDir()
		if err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dir, err)
	}
	log.Printf("[storage] Archive opened at %s", dir)

	return &Archive{db: db}, nil
}

// OpenInMemory opens an archive that lives only as long as the process.
func OpenInMemory() (*Archive, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open in-memory: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the database
func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func positionKey(key uint64) []byte {
	return []byte(fmt.Sprintf("%s%016x", prefixPosition, key))
}

func gameKey(name string) []byte {
	return []byte(prefixGame + name)
}

func (a *Archive) put(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func (a *Archive) get(key []byte, v any) error {
	return a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// SavePosition stores pos under its Zobrist key.
func (a *Archive) SavePosition(pos *board.Position) error {
	rec := PositionRecord{
		Key:     pos.Key(),
		FEN:     pos.FEN(),
		Ply:     pos.Ply(),
		SavedAt: time.Now(),
	}
	return a.put(positionKey(rec.Key), rec)
}

// LoadPosition rebuilds the position stored under key. The result has an
// empty history.
func (a *Archive) LoadPosition(key uint64, opts ...board.Option) (*board.Position, error) {
	var rec PositionRecord
	if err := a.get(positionKey(key), &rec); err != nil {
		return nil, fmt.Errorf("position %016x: %w", key, err)
	}

	pos, err := board.NewPositionFromFEN(rec.FEN, opts...)
	if err != nil {
		return nil, fmt.Errorf("position %016x: %w", key, err)
	}
	if pos.Key() != key {
		return nil, fmt.Errorf("position %016x: stored FEN hashes to %016x", key, pos.Key())
	}
	return pos, nil
}

// HasPosition returns true if a position with key is stored.
func (a *Archive) HasPosition(key uint64) (bool, error) {
	var found bool
	err := a.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(positionKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

// SaveGame stores a game under name. The moves are replayed once to make
// sure they apply and to record the final key.
func (a *Archive) SaveGame(name, startFEN string, moves []string) (*Game, error) {
	if name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("storage: invalid game name %q", name)
	}

	final, err := Replay(startFEN, moves)
	if err != nil {
		return nil, err
	}

	g := &Game{
		Name:     name,
		StartFEN: startFEN,
		Moves:    slices.Clone(moves),
		FinalKey: final.Key(),
		SavedAt:  time.Now(),
	}
	if err := a.put(gameKey(name), g); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadGame returns the game stored under name.
func (a *Archive) LoadGame(name string) (*Game, error) {
	var g Game
	if err := a.get(gameKey(name), &g); err != nil {
		return nil, fmt.Errorf("game %q: %w", name, err)
	}
	return &g, nil
}

// ListGames returns the names of all stored games, sorted.
func (a *Archive) ListGames() ([]string, error) {
	var names []string
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixGame)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), prefixGame))
		}
		return nil
	})
	slices.Sort(names)
	return names, err
}

// Position replays the game and returns the resulting position with every
// move recorded, so the caller can undo back to the start.
func (g *Game) Position(opts ...board.Option) (*board.Position, error) {
	return Replay(g.StartFEN, g.Moves, opts...)
}

// Replay applies UCI moves to the position described by startFEN. Each
// move is checked against the legal move list first, since the position
// itself trusts whatever it is given.
func Replay(startFEN string, moves []string, opts ...board.Option) (*board.Position, error) {
	pos, err := board.NewPositionFromFEN(startFEN, opts...)
	if err != nil {
		return nil, err
	}
	for i, s := range moves {
		if pos.HistoryFull() {
			return nil, fmt.Errorf("move %d (%s): history full", i+1, s)
		}
		m, err := movegen.ParseLegal(s, pos)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		pos.MakeMove(m, true)
	}
	return pos, nil
}
