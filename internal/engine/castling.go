package engine

import "github.com/lgbarn/repertoire-go/internal/chess"

// castleSquares holds the columns a castle on one wing uses.
type castleSquares struct {
	kind    chess.MoveKind
	rookCol int
	kingTo  int
	rookTo  int
	empty   []int // must be vacant between king and rook
	safe    []int // must not be attacked: start, crossed and destination
}

var (
	shortCastle = castleSquares{
		kind:    chess.ShortCastle,
		rookCol: chess.ShortRookCol,
		kingTo:  6,
		rookTo:  5,
		empty:   []int{5, 6},
		safe:    []int{4, 5, 6},
	}
	longCastle = castleSquares{
		kind:    chess.LongCastle,
		rookCol: chess.LongRookCol,
		kingTo:  2,
		rookTo:  3,
		empty:   []int{3, 2, 1},
		safe:    []int{4, 3, 2},
	}
)

// castlingMoves returns the castles available to the king on from.
func castlingMoves(b *chess.Board, from chess.Position, side chess.Side, rights chess.CastlingRights) []Move {
	row := side.HomeRow()
	if from != chess.Pos(row, chess.KingCol) {
		return nil
	}

	var moves []Move
	if rights.CanShort() && canCastle(b, side, shortCastle) {
		moves = append(moves, Move{To: chess.Pos(row, shortCastle.kingTo), Kind: chess.ShortCastle})
	}
	if rights.CanLong() && canCastle(b, side, longCastle) {
		moves = append(moves, Move{To: chess.Pos(row, longCastle.kingTo), Kind: chess.LongCastle})
	}
	return moves
}

func canCastle(b *chess.Board, side chess.Side, c castleSquares) bool {
	row := side.HomeRow()
	if !b.At(chess.Pos(row, c.rookCol)).Is(side, chess.Rook) {
		return false
	}
	for _, col := range c.empty {
		if !b.IsEmptyAt(chess.Pos(row, col)) {
			return false
		}
	}
	for _, col := range c.safe {
		if IsSquareAttacked(*b, chess.Pos(row, col), side.Opposite()) {
			return false
		}
	}
	return true
}

// applyCastle relocates the king and rook of the side whose king is on from.
func applyCastle(b *chess.Board, from chess.Position, c castleSquares) {
	row := from.Row
	king := b.At(from)
	b.Clear(from)
	b.Set(chess.Pos(row, c.kingTo), king)

	rookFrom := chess.Pos(row, c.rookCol)
	rook := b.At(rookFrom)
	b.Clear(rookFrom)
	b.Set(chess.Pos(row, c.rookTo), rook)
}
