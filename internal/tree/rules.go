package tree

import (
	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/engine"
	"github.com/lgbarn/repertoire-go/internal/errors"
)

// CastlingRights derives the castles side may still make in the position at
// id by walking the lineage back to the root. A king move removes both
// wings; a rook leaving, or a piece landing on, a home corner removes that
// corner's wing.
func (t *Tree) CastlingRights(id NodeID, side chess.Side) chess.CastlingRights {
	rights := t.rootState.RightsFor(side)
	row := side.HomeRow()
	shortCorner := chess.Pos(row, chess.ShortRookCol)
	longCorner := chess.Pos(row, chess.LongRookCol)

	for cur := t.node(id); !cur.IsRoot(); cur = t.nodes[cur.Parent] {
		if cur.Side == side {
			if cur.Piece.Kind == chess.King {
				return chess.NoCastling
			}
			if cur.Piece.Kind == chess.Rook {
				switch cur.From {
				case shortCorner:
					rights = rights.WithoutShort()
				case longCorner:
					rights = rights.WithoutLong()
				}
			}
			continue
		}
		// A capture on the corner removes the rook without it moving.
		switch cur.To {
		case shortCorner:
			rights = rights.WithoutShort()
		case longCorner:
			rights = rights.WithoutLong()
		}
	}
	return rights
}

// State returns the engine context of the position at id: side to move,
// derived castling rights and the move that produced it.
func (t *Tree) State(id NodeID) engine.State {
	n := t.node(id)
	st := engine.State{
		SideToMove: n.Side.Opposite(),
		Rights: [2]chess.CastlingRights{
			chess.White: t.CastlingRights(id, chess.White),
			chess.Black: t.CastlingRights(id, chess.Black),
		},
	}
	if n.IsRoot() {
		st.LastMove = t.rootState.LastMove
	} else {
		st.LastMove = &engine.LastMove{Piece: n.Piece, From: n.From, To: n.To}
	}
	return st
}

// LegalMoves returns the legal moves of the piece on from in the position at id.
func (t *Tree) LegalMoves(id NodeID, from chess.Position) []engine.Move {
	return engine.LegalMoves(t.node(id).Board, from, t.State(id))
}

// IsMoveLegal reports whether from-to is a legal move in the position at id.
func (t *Tree) IsMoveLegal(id NodeID, from, to chess.Position) bool {
	return engine.IsMoveLegal(t.node(id).Board, from, to, t.State(id))
}

// Play validates a move in the position at parent, applies it and records
// it. promo selects the promotion piece and is ignored for other moves;
// chess.NoKind promotes to a queen.
func (t *Tree) Play(parent NodeID, from, to chess.Position, promo chess.PieceKind) (NodeID, bool, error) {
	p, ok := t.Node(parent)
	if !ok {
		return 0, false, errors.Wrapf(errors.ErrUnknownNode, "node %d", parent)
	}

	illegal := func() error {
		return &errors.MoveError{
			Err:  errors.ErrIllegalMove,
			Ply:  p.Ply,
			From: from.String(),
			To:   to.String(),
			Node: p.hash,
		}
	}

	move, ok := engine.FindLegalMove(p.Board, from, to, t.State(parent))
	if !ok {
		return 0, false, illegal()
	}

	piece := p.Board.At(from)
	promoPiece := chess.NoPiece
	if move.Kind == chess.Promotion {
		switch promo {
		case chess.NoKind:
		case chess.Knight, chess.Bishop, chess.Rook, chess.Queen:
			promoPiece = chess.Piece{Side: piece.Side, Kind: promo}
		default:
			return 0, false, illegal()
		}
	}

	board := engine.ApplyMove(p.Board, from, to, move.Kind, promoPiece)
	id, isNew := t.AddMove(parent, piece, from, to, board)
	return id, isNew, nil
}

// IsCheck reports whether the side to move at id is in check.
func (t *Tree) IsCheck(id NodeID) bool {
	n := t.node(id)
	return engine.IsInCheck(n.Board, n.Side.Opposite())
}

// Checkmated returns the side to move at id when it is checkmated: its king
// is attacked and none of its pieces has a legal move. An attacked king of
// the side not to move is never reported.
func (t *Tree) Checkmated(id NodeID) (chess.Side, bool) {
	n := t.node(id)
	st := t.State(id)
	if !engine.IsCheckmate(n.Board, st) {
		return 0, false
	}
	return st.SideToMove, true
}

// Castled reports whether the move into id was a castle, and which.
func (t *Tree) Castled(id NodeID) chess.CastleType {
	n := t.node(id)
	if n.IsRoot() || n.Piece.Kind != chess.King {
		return chess.NotCastled
	}
	switch n.To.Col - n.From.Col {
	case 2:
		return chess.CastledShort
	case -2:
		return chess.CastledLong
	}
	return chess.NotCastled
}

// PromotedTo returns the piece a pawn became on the move into id.
func (t *Tree) PromotedTo(id NodeID) (chess.Piece, bool) {
	n := t.node(id)
	if n.IsRoot() {
		return chess.NoPiece, false
	}
	before := t.nodes[n.Parent].Board.At(n.From)
	after := n.Board.At(n.To)
	if before.Kind != chess.Pawn || after.IsEmpty() || after.Kind == chess.Pawn {
		return chess.NoPiece, false
	}
	return after, true
}
