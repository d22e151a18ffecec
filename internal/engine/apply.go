package engine

import "github.com/lgbarn/repertoire-go/internal/chess"

// ApplyMove returns the board after moving the piece on from to to. The input
// board is not modified.
//
// ApplyMove trusts its caller: it performs no legality checks. Callers must
// establish legality with LegalMoves or IsMoveLegal first. For a promotion,
// an empty promo piece means a queen of the mover's side; a promo piece of
// the wrong side is recoloured.
func ApplyMove(b chess.Board, from, to chess.Position, kind chess.MoveKind, promo chess.Piece) chess.Board {
	next := b
	piece := next.At(from)

	switch kind {
	case chess.ShortCastle:
		applyCastle(&next, from, shortCastle)
		return next
	case chess.LongCastle:
		applyCastle(&next, from, longCastle)
		return next
	case chess.EnPassant:
		// The captured pawn sits beside the mover, not on the target square.
		next.Clear(chess.Pos(from.Row, to.Col))
	case chess.Promotion:
		if promo.IsEmpty() {
			promo = chess.Piece{Side: piece.Side, Kind: chess.Queen}
		}
		promo.Side = piece.Side
		piece = promo
	}

	next.Clear(from)
	next.Set(to, piece)
	return next
}

// TransitionKind infers the kind of a move from the board before it, without
// checking legality. Castling is recognised as a two-column king move along
// its home row, en passant as a pawn moving diagonally onto an empty square.
func TransitionKind(b chess.Board, from, to chess.Position) chess.MoveKind {
	piece := b.At(from)
	switch piece.Kind {
	case chess.King:
		if from.Row == to.Row && from.Row == piece.Side.HomeRow() && from.Col == chess.KingCol {
			switch to.Col {
			case shortCastle.kingTo:
				return chess.ShortCastle
			case longCastle.kingTo:
				return chess.LongCastle
			}
		}
	case chess.Pawn:
		if to.Row == piece.Side.LastRow() {
			return chess.Promotion
		}
		if from.Col != to.Col && b.At(to).IsEmpty() {
			return chess.EnPassant
		}
	}
	return chess.Normal
}
