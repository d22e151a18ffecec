package engine

import "github.com/lgbarn/repertoire-go/internal/chess"

// LastMove is the move that produced the position being searched. It is the
// only history the generator needs, for en passant.
type LastMove struct {
	Piece chess.Piece
	From  chess.Position
	To    chess.Position
}

// State is the context a position needs beyond its board.
type State struct {
	SideToMove chess.Side
	Rights     [2]chess.CastlingRights // indexed by chess.Side
	LastMove   *LastMove
}

// NewState returns a state with full castling rights for both sides and no
// previous move.
func NewState(side chess.Side) State {
	return State{SideToMove: side}
}

// RightsFor returns the castling rights of the given side.
func (s State) RightsFor(side chess.Side) chess.CastlingRights {
	return s.Rights[side]
}

// Move is a generated destination together with the kind of move reaching it.
type Move struct {
	To   chess.Position
	Kind chess.MoveKind
}

// PseudoMoves enumerates the destinations of the piece on from, obeying
// movement, blocking, castling and en passant rules but not king safety.
// It returns nil for an empty square or a piece of the side not to move.
func PseudoMoves(b chess.Board, from chess.Position, st State) []Move {
	piece := b.At(from)
	if piece.IsEmpty() || piece.Side != st.SideToMove {
		return nil
	}

	switch piece.Kind {
	case chess.Pawn:
		return pawnMoves(&b, from, piece.Side, st.LastMove)
	case chess.Knight:
		return stepMoves(&b, from, piece.Side, knightOffsets)
	case chess.King:
		moves := stepMoves(&b, from, piece.Side, kingOffsets)
		return append(moves, castlingMoves(&b, from, piece.Side, st.RightsFor(piece.Side))...)
	case chess.Bishop, chess.Rook, chess.Queen:
		return slidingMoves(&b, from, piece.Side, SlidingDirections(piece.Kind))
	}
	return nil
}

// stepMoves returns the offset squares that are empty or hold an enemy.
func stepMoves(b *chess.Board, from chess.Position, side chess.Side, offsets [][2]int) []Move {
	var moves []Move
	for _, off := range offsets {
		to := from.Offset(off[0], off[1])
		if !to.InBoard() {
			continue
		}
		target := b.At(to)
		if target.IsEmpty() || target.Side != side {
			moves = append(moves, Move{To: to, Kind: chess.Normal})
		}
	}
	return moves
}

// slidingMoves walks each ray until the edge, stopping after the first
// enemy piece and before the first friendly one.
func slidingMoves(b *chess.Board, from chess.Position, side chess.Side, dirs [][2]int) []Move {
	var moves []Move
	for _, dir := range dirs {
		to := from.Offset(dir[0], dir[1])
		for to.InBoard() {
			target := b.At(to)
			if !target.IsEmpty() {
				if target.Side != side {
					moves = append(moves, Move{To: to, Kind: chess.Normal})
				}
				break // Blocked
			}
			moves = append(moves, Move{To: to, Kind: chess.Normal})
			to = to.Offset(dir[0], dir[1])
		}
	}
	return moves
}

// pawnMoves generates pushes, captures, promotions and en passant.
func pawnMoves(b *chess.Board, from chess.Position, side chess.Side, last *LastMove) []Move {
	var moves []Move
	dir := side.Forward()

	kindFor := func(to chess.Position) chess.MoveKind {
		if to.Row == side.LastRow() {
			return chess.Promotion
		}
		return chess.Normal
	}

	one := from.Offset(dir, 0)
	if b.IsEmptyAt(one) {
		moves = append(moves, Move{To: one, Kind: kindFor(one)})
		two := from.Offset(2*dir, 0)
		if from.Row == side.PawnRow() && b.IsEmptyAt(two) {
			moves = append(moves, Move{To: two, Kind: chess.Normal})
		}
	}

	for _, dc := range []int{-1, 1} {
		to := from.Offset(dir, dc)
		if b.At(to).IsEnemyOf(side) {
			moves = append(moves, Move{To: to, Kind: kindFor(to)})
		}
	}

	if to, ok := EnPassantTarget(b, from, side, last); ok {
		moves = append(moves, Move{To: to, Kind: chess.EnPassant})
	}
	return moves
}

// EnPassantTarget returns the square a pawn of side on from may capture to
// en passant, given the move that produced the position.
func EnPassantTarget(b *chess.Board, from chess.Position, side chess.Side, last *LastMove) (chess.Position, bool) {
	if last == nil || !last.Piece.Is(side.Opposite(), chess.Pawn) {
		return chess.Position{}, false
	}
	enemy := side.Opposite()
	if last.From.Row != enemy.PawnRow() || last.To.Row != enemy.PawnRow()+2*enemy.Forward() {
		return chess.Position{}, false
	}
	if last.From.Col != last.To.Col || last.To.Row != from.Row || abs(last.To.Col-from.Col) != 1 {
		return chess.Position{}, false
	}
	if !b.At(last.To).Is(enemy, chess.Pawn) {
		return chess.Position{}, false
	}
	to := chess.Pos(from.Row+side.Forward(), last.To.Col)
	if !b.IsEmptyAt(to) {
		return chess.Position{}, false
	}
	return to, true
}
