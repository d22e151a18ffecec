package tree

import (
	"fmt"
	"strings"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/errors"
)

// NoPromotion is the promotion value older records use for "none".
const NoPromotion = "x"

// MoveRecord is the flat form of a node handed to persistence. Squares are
// [row, col] pairs with row 0 on the eighth rank.
type MoveRecord struct {
	ID        string `json:"id" bson:"_id"`
	Name      string `json:"name" bson:"name"`
	From      [2]int `json:"from" bson:"from"`
	To        [2]int `json:"to" bson:"to"`
	Promotion string `json:"promotion,omitempty" bson:"promotion,omitempty"`
}

// PathMove is one step of a stored root-to-leaf line.
type PathMove struct {
	From      chess.Position
	To        chess.Position
	Promotion chess.PieceKind // chess.NoKind unless the move promotes
}

// String returns the move in coordinate form, e.g. "e7e8q".
func (m PathMove) String() string {
	s := m.From.String() + m.To.String()
	if l := m.Promotion.Letter(); l != "" {
		s += string(l[0] + 'a' - 'A')
	}
	return s
}

// ParsePathMove parses the coordinate form written by PathMove.String.
func ParsePathMove(s string) (PathMove, error) {
	if len(s) != 4 && len(s) != 5 {
		return PathMove{}, &errors.ParseError{Err: errors.ErrInvalidSquare, Input: s, Got: "length"}
	}
	from, err := chess.ParseSquare(s[0:2])
	if err != nil {
		return PathMove{}, err
	}
	to, err := chess.ParseSquare(s[2:4])
	if err != nil {
		return PathMove{}, err
	}

	m := PathMove{From: from, To: to}
	if len(s) == 5 {
		switch kind := chess.KindFromLetter(s[4]); kind {
		case chess.Knight, chess.Bishop, chess.Rook, chess.Queen:
			m.Promotion = kind
		default:
			return PathMove{}, &errors.ParseError{
				Err:    errors.ErrIllegalMove,
				Input:  s,
				Offset: 4,
				Got:    fmt.Sprintf("promotion %q", s[4:]),
			}
		}
	}
	return m, nil
}

// ParseLine parses a space separated line of coordinate moves.
func ParseLine(s string) ([]PathMove, error) {
	fields := strings.Fields(s)
	line := make([]PathMove, 0, len(fields))
	for _, f := range fields {
		m, err := ParsePathMove(f)
		if err != nil {
			return nil, err
		}
		line = append(line, m)
	}
	return line, nil
}

// Record returns the persistence record of the move into id and the content
// hash of its parent.
func (t *Tree) Record(id NodeID) (MoveRecord, string, error) {
	n, ok := t.Node(id)
	if !ok || n.IsRoot() {
		return MoveRecord{}, "", errors.Wrapf(errors.ErrUnknownNode, "no move at node %d", id)
	}
	san, err := t.Notation(id)
	if err != nil {
		return MoveRecord{}, "", err
	}

	rec := MoveRecord{
		ID:   n.hash,
		Name: san,
		From: [2]int{n.From.Row, n.From.Col},
		To:   [2]int{n.To.Row, n.To.Col},
	}
	if promo, ok := t.PromotedTo(id); ok {
		rec.Promotion = promo.Kind.Letter()
	}
	return rec, t.nodes[n.Parent].hash, nil
}

// PathMove converts a stored record back to a replayable move. A promotion
// of "" or "x" means none.
func (r MoveRecord) PathMove() (PathMove, error) {
	from := chess.Pos(r.From[0], r.From[1])
	to := chess.Pos(r.To[0], r.To[1])
	if !from.InBoard() || !to.InBoard() {
		return PathMove{}, &errors.ParseError{
			Err:   errors.ErrInvalidSquare,
			Input: r.ID,
			Got:   fmt.Sprintf("squares %v-%v", r.From, r.To),
		}
	}

	m := PathMove{From: from, To: to}
	switch r.Promotion {
	case "", NoPromotion:
	default:
		kind := chess.NoKind
		if len(r.Promotion) == 1 {
			kind = chess.KindFromLetter(r.Promotion[0])
		}
		switch kind {
		case chess.Knight, chess.Bishop, chess.Rook, chess.Queen:
			m.Promotion = kind
		default:
			return PathMove{}, &errors.ParseError{
				Err:   errors.ErrIllegalMove,
				Input: r.ID,
				Got:   fmt.Sprintf("promotion %q", r.Promotion),
			}
		}
	}
	return m, nil
}
