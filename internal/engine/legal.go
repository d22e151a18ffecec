package engine

import "github.com/lgbarn/repertoire-go/internal/chess"

// LegalMoves returns the pseudo moves of the piece on from that do not leave
// the mover's own king attacked. It is the single legality gate: every move
// entering a tree passes through it.
func LegalMoves(b chess.Board, from chess.Position, st State) []Move {
	pseudo := PseudoMoves(b, from, st)
	if len(pseudo) == 0 {
		return nil
	}

	side := b.At(from).Side
	legal := pseudo[:0]
	for _, m := range pseudo {
		if tryMove(b, from, m, side) {
			legal = append(legal, m)
		}
	}
	return legal
}

// FindLegalMove returns the legal move from from to to, if there is one.
func FindLegalMove(b chess.Board, from, to chess.Position, st State) (Move, bool) {
	for _, m := range LegalMoves(b, from, st) {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}

// IsMoveLegal reports whether moving the piece on from to to is legal.
func IsMoveLegal(b chess.Board, from, to chess.Position, st State) bool {
	_, ok := FindLegalMove(b, from, to, st)
	return ok
}

// LegalMoveCount returns the number of legal moves available to the side to
// move, counting each promotion destination once.
func LegalMoveCount(b chess.Board, st State) int {
	count := 0
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			count += len(LegalMoves(b, chess.Pos(row, col), st))
		}
	}
	return count
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func HasLegalMoves(b chess.Board, st State) bool {
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			if len(LegalMoves(b, chess.Pos(row, col), st)) > 0 {
				return true
			}
		}
	}
	return false
}

// IsCheckmate returns true if the side to move is in check with no legal move.
func IsCheckmate(b chess.Board, st State) bool {
	return IsInCheck(b, st.SideToMove) && !HasLegalMoves(b, st)
}

// tryMove makes a move on a copied board and checks if it leaves the king in check.
func tryMove(b chess.Board, from chess.Position, m Move, side chess.Side) bool {
	next := ApplyMove(b, from, m.To, m.Kind, chess.NoPiece)
	return !IsInCheck(next, side)
}
