package board

// Zobrist keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [pieceKinds][64]uint64 // [Piece][Square]
	zobristEnPassant  [8]uint64              // One per file
	zobristCastleBit  [4]uint64              // One per castling right
	zobristCastling   [16]uint64             // XOR of zobristCastleBit over each rights mask
	zobristSideToMove uint64                 // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for p := WhitePawn; p < NoPiece; p++ {
		for sq := A1; sq <= H8; sq++ {
			zobristPiece[p][sq] = rng.next()
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for i := range zobristCastleBit {
		zobristCastleBit[i] = rng.next()
	}
	for cr := range zobristCastling {
		var key uint64
		for i := range zobristCastleBit {
			if cr&(1<<i) != 0 {
				key ^= zobristCastleBit[i]
			}
		}
		zobristCastling[cr] = key
	}

	zobristSideToMove = rng.next()
}

// ZobristPiece returns the Zobrist key for a piece on a square.
func ZobristPiece(p Piece, sq Square) uint64 {
	if !p.IsPiece() || !sq.IsValid() {
		return 0
	}
	return zobristPiece[p][sq]
}

// ZobristEnPassant returns the Zobrist key for an en passant file.
func ZobristEnPassant(file int) uint64 {
	return zobristEnPassant[file]
}

// ZobristCastling returns the combined Zobrist key of every right held in cr.
func ZobristCastling(cr CastlingRights) uint64 {
	return zobristCastling[cr&AllCastling]
}

// ZobristSideToMove returns the Zobrist key for side to move.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}

// ComputeHash derives the Zobrist key of the position from scratch.
// MakeMove never calls it; it exists to seed the key after a bulk reset
// and to cross-check the incremental key.
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	for pc := WhitePawn; pc < NoPiece; pc++ {
		for _, sq := range p.board.list(pc) {
			hash ^= zobristPiece[pc][sq]
		}
	}

	if p.sideToMove == Black {
		hash ^= zobristSideToMove
	}

	hash ^= zobristCastling[p.castling]

	if p.enPassant != NoSquare {
		hash ^= zobristEnPassant[p.enPassant.File()]
	}

	return hash
}
