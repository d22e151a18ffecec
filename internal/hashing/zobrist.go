package hashing

import (
	"math/rand"

	"github.com/cespare/xxhash/v2"

	"github.com/lgbarn/repertoire-go/internal/chess"
)

var (
	pieceKeys [2][7][chess.BoardSize * chess.BoardSize]uint64
	blackKey  uint64
)

func init() {
	// Fixed seed so hashes are stable across runs.
	rnd := rand.New(rand.NewSource(0x5EED))
	for side := range pieceKeys {
		for kind := range pieceKeys[side] {
			for sq := range pieceKeys[side][kind] {
				pieceKeys[side][kind][sq] = rnd.Uint64()
			}
		}
	}
	blackKey = rnd.Uint64()
}

// GenerateZobristHash returns the Zobrist hash of a position: the pieces on
// the board and the side to move.
func GenerateZobristHash(b chess.Board, sideToMove chess.Side) uint64 {
	var hash uint64
	for r := 0; r < chess.BoardSize; r++ {
		for c := 0; c < chess.BoardSize; c++ {
			p := b[r][c]
			if p.IsEmpty() {
				continue
			}
			hash ^= pieceKeys[p.Side][p.Kind][r*chess.BoardSize+c]
		}
	}
	if sideToMove == chess.Black {
		hash ^= blackKey
	}
	return hash
}

// WeakHash is an independent digest of the placement, used to confirm a
// Zobrist match.
func WeakHash(b chess.Board) uint64 {
	return xxhash.Sum64String(b.Placement())
}
