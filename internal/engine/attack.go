// Package engine provides move generation, legality checking and move
// application over chess.Board values. Every function is a pure function
// of its arguments.
package engine

import "github.com/lgbarn/repertoire-go/internal/chess"

var (
	knightOffsets  = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets    = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	diagonalDirs   = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	orthogonalDirs = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	allSlidingDirs = append(append([][2]int{}, diagonalDirs...), orthogonalDirs...)
)

// SlidingDirections returns the ray directions of a bishop, rook or queen,
// or nil for any other kind.
func SlidingDirections(kind chess.PieceKind) [][2]int {
	switch kind {
	case chess.Bishop:
		return diagonalDirs
	case chess.Rook:
		return orthogonalDirs
	case chess.Queen:
		return allSlidingDirs
	}
	return nil
}

// KnightOffsets returns the eight knight jumps as (row, col) deltas.
func KnightOffsets() [][2]int {
	return knightOffsets
}

// FindKing returns the square of the given side's king.
func FindKing(b chess.Board, side chess.Side) (chess.Position, bool) {
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			if b[row][col].Is(side, chess.King) {
				return chess.Pos(row, col), true
			}
		}
	}
	return chess.Position{}, false
}

// IsInCheck returns true if the given side's king is attacked.
// A board without that king is never in check.
func IsInCheck(b chess.Board, side chess.Side) bool {
	king, ok := FindKing(b, side)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, king, side.Opposite())
}

// KingsInCheck returns the sides whose king is attacked on the board.
func KingsInCheck(b chess.Board) []chess.Side {
	var sides []chess.Side
	for _, side := range []chess.Side{chess.White, chess.Black} {
		if IsInCheck(b, side) {
			sides = append(sides, side)
		}
	}
	return sides
}

// IsSquareAttacked returns true if the square is attacked by any piece of
// the given side.
func IsSquareAttacked(b chess.Board, sq chess.Position, by chess.Side) bool {
	// Pawns attack diagonally forward, so look one row back from sq.
	pawnRow := sq.Row - by.Forward()
	for _, dc := range []int{-1, 1} {
		if b.At(chess.Pos(pawnRow, sq.Col+dc)).Is(by, chess.Pawn) {
			return true
		}
	}

	for _, off := range knightOffsets {
		if b.At(sq.Offset(off[0], off[1])).Is(by, chess.Knight) {
			return true
		}
	}

	for _, off := range kingOffsets {
		if b.At(sq.Offset(off[0], off[1])).Is(by, chess.King) {
			return true
		}
	}

	if rayHits(&b, sq, diagonalDirs, by, chess.Bishop) {
		return true
	}
	return rayHits(&b, sq, orthogonalDirs, by, chess.Rook)
}

// rayHits walks each direction from sq and reports whether the first
// occupied square holds a slider of the given kind or a queen.
func rayHits(b *chess.Board, sq chess.Position, dirs [][2]int, by chess.Side, kind chess.PieceKind) bool {
	for _, dir := range dirs {
		p := sq.Offset(dir[0], dir[1])
		for p.InBoard() {
			piece := b.At(p)
			if !piece.IsEmpty() {
				if piece.Side == by && (piece.Kind == kind || piece.Kind == chess.Queen) {
					return true
				}
				break // Blocked
			}
			p = p.Offset(dir[0], dir[1])
		}
	}
	return false
}
