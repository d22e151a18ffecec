package tree

import (
	"github.com/lgbarn/repertoire-go/internal/errors"
)

// Replay plays each root-to-leaf line into the tree, folding shared prefixes
// onto existing nodes. Every move is validated. It returns the node reached
// by the longest fully replayed line; ties go to the earliest line, and with
// no lines the root is returned.
//
// A line with an illegal move keeps its legal prefix and is abandoned at
// that move; the remaining lines are still replayed. The MoveError of every
// abandoned line is returned joined.
func (t *Tree) Replay(lines [][]PathMove) (NodeID, error) {
	deepest, depth := t.Root(), 0
	var errs []error
	for i, line := range lines {
		cur, err := t.replayLine(line)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "line %d", i))
			continue
		}
		if len(line) > depth {
			deepest, depth = cur, len(line)
		}
	}
	return deepest, errors.Join(errs...)
}

func (t *Tree) replayLine(line []PathMove) (NodeID, error) {
	cur := t.Root()
	for _, m := range line {
		next, _, err := t.Play(cur, m.From, m.To, m.Promotion)
		if err != nil {
			return cur, err
		}
		cur = next
	}
	return cur, nil
}

// Line returns the moves leading to id in replayable form.
func (t *Tree) Line(id NodeID) []PathMove {
	ids := t.AllMoves(id)
	line := make([]PathMove, 0, len(ids))
	for _, mid := range ids {
		n := t.nodes[mid]
		m := PathMove{From: n.From, To: n.To}
		if promo, ok := t.PromotedTo(mid); ok {
			m.Promotion = promo.Kind
		}
		line = append(line, m)
	}
	return line
}
