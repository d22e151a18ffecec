package tree

import (
	"strings"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/engine"
	"github.com/lgbarn/repertoire-go/internal/errors"
)

type notationOptions struct {
	castleLetters bool
}

func (o notationOptions) castle(c chess.CastleType) string {
	zero := "0"
	if o.castleLetters {
		zero = "O"
	}
	if c == chess.CastledLong {
		return zero + "-" + zero + "-" + zero
	}
	return zero + "-" + zero
}

// Notation returns the SAN of the move into id. The result is computed once
// and cached. The root has no move and yields an empty string.
func (t *Tree) Notation(id NodeID) (string, error) {
	n, ok := t.Node(id)
	if !ok {
		return "", errors.Wrapf(errors.ErrUnknownNode, "node %d", id)
	}
	if n.IsRoot() {
		return "", nil
	}
	if n.hasNotation {
		return n.notation, nil
	}

	san, err := t.encode(n)
	if err != nil {
		return "", err
	}
	n.notation = san
	n.hasNotation = true
	return san, nil
}

func (t *Tree) encode(n *Node) (string, error) {
	before := &t.nodes[n.Parent].Board
	moved := before.At(n.From)
	if moved.IsEmpty() {
		moved = n.Piece
	}
	if moved.IsEmpty() {
		return "", &errors.MoveError{
			Err:  errors.ErrNoTransition,
			Ply:  n.Ply,
			From: n.From.String(),
			To:   n.To.String(),
		}
	}

	suffix := ""
	if _, mated := t.Checkmated(n.ID); mated {
		suffix = "#"
	} else if t.IsCheck(n.ID) {
		suffix = "+"
	}

	if c := t.Castled(n.ID); c != chess.NotCastled {
		return t.notation.castle(c) + suffix, nil
	}

	capture := !before.At(n.To).IsEmpty() ||
		(moved.Kind == chess.Pawn && n.From.Col != n.To.Col)

	var sb strings.Builder
	if moved.Kind == chess.Pawn {
		if capture {
			sb.WriteByte(n.From.File())
		}
	} else {
		sb.WriteString(moved.Kind.Letter())
		if moved.Kind != chess.King {
			d, err := Disambiguation(*before, moved, n.From, n.To)
			if err != nil {
				return "", err
			}
			sb.WriteString(d)
		}
	}
	if capture {
		sb.WriteByte('x')
	}
	sb.WriteString(n.To.String())
	if promo, ok := t.PromotedTo(n.ID); ok {
		sb.WriteByte('=')
		sb.WriteString(promo.Kind.Letter())
	}
	sb.WriteString(suffix)
	return sb.String(), nil
}

// Disambiguation returns the origin qualifier SAN needs for piece moving
// from from to to on board b, which is the position before the move. It
// returns "" when piece is the only one of its kind and side reaching to,
// the origin file when that is unique among the candidates, else the origin
// rank when that is unique, else the whole origin square.
//
// Pawns never need a qualifier. Kings and empty squares are invalid input,
// and an origin from which piece cannot reach to is ErrNoTransition.
func Disambiguation(b chess.Board, piece chess.Piece, from, to chess.Position) (string, error) {
	switch piece.Kind {
	case chess.NoKind, chess.King:
		return "", errors.Wrapf(errors.ErrInvalidDisambiguation, "%s on %s", piece.Kind, from)
	case chess.Pawn:
		return "", nil
	}

	candidates := reachingPieces(&b, piece, to)
	if !containsSquare(candidates, from) {
		return "", errors.Wrapf(errors.ErrNoTransition, "%s cannot reach %s from %s", piece.Kind, to, from)
	}
	if len(candidates) == 1 {
		return "", nil
	}

	sameFile, sameRank := 0, 0
	for _, c := range candidates {
		if c.Col == from.Col {
			sameFile++
		}
		if c.Row == from.Row {
			sameRank++
		}
	}

	switch {
	case sameFile == 1:
		return string(from.File()), nil
	case sameRank == 1:
		return string(from.Rank()), nil
	}
	return from.String(), nil
}

// reachingPieces returns the squares holding piece that can move to to,
// ignoring pins.
func reachingPieces(b *chess.Board, piece chess.Piece, to chess.Position) []chess.Position {
	var found []chess.Position
	if piece.Kind == chess.Knight {
		for _, off := range engine.KnightOffsets() {
			sq := to.Offset(off[0], off[1])
			if b.At(sq) == piece {
				found = append(found, sq)
			}
		}
		return found
	}

	for _, dir := range engine.SlidingDirections(piece.Kind) {
		sq := to.Offset(dir[0], dir[1])
		for sq.InBoard() && b.At(sq).IsEmpty() {
			sq = sq.Offset(dir[0], dir[1])
		}
		if b.At(sq) == piece {
			found = append(found, sq)
		}
	}
	return found
}

func containsSquare(squares []chess.Position, sq chess.Position) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}
