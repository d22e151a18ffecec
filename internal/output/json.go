package output

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/engine"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// JSONTree represents a repertoire tree in JSON format.
type JSONTree struct {
	Root       string      `json:"root"`
	InitialFEN string      `json:"initialFEN"`
	Nodes      int         `json:"nodes"`
	Moves      []*JSONMove `json:"moves"`
}

// JSONMove represents one node of the tree in JSON format.
type JSONMove struct {
	ID         string      `json:"id"`
	Parent     string      `json:"parent"`
	MoveNumber int         `json:"moveNumber"`
	Color      string      `json:"color"` // "white" or "black"
	SAN        string      `json:"san"`
	UCI        string      `json:"uci"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	Piece      string      `json:"piece"`
	Promotion  string      `json:"promotion,omitempty"`
	Castle     string      `json:"castle,omitempty"`
	Check      bool        `json:"check,omitempty"`
	Checkmate  bool        `json:"checkmate,omitempty"`
	FEN        string      `json:"fen,omitempty"`
	Variations []*JSONMove `json:"children,omitempty"`
}

// TreeToJSON converts the tree to JSON form. includeFEN adds the position
// after every move.
func TreeToJSON(t *tree.Tree, includeFEN bool) (*JSONTree, error) {
	root, _ := t.Node(t.Root())
	jt := &JSONTree{
		Root:       t.MoveHash(t.Root()),
		InitialFEN: engine.FEN(root.Board, t.State(t.Root())),
		Nodes:      t.Len(),
	}
	moves, err := convertChildren(t, t.Root(), includeFEN)
	if err != nil {
		return nil, err
	}
	jt.Moves = moves
	return jt, nil
}

func convertChildren(t *tree.Tree, id tree.NodeID, includeFEN bool) ([]*JSONMove, error) {
	children := t.Children(id)
	result := make([]*JSONMove, 0, len(children))
	for _, child := range children {
		jm, err := MoveToJSON(t, child, includeFEN)
		if err != nil {
			return nil, err
		}
		if jm.Variations, err = convertChildren(t, child, includeFEN); err != nil {
			return nil, err
		}
		result = append(result, jm)
	}
	return result, nil
}

// MoveToJSON converts the single move into id, without its children.
func MoveToJSON(t *tree.Tree, id tree.NodeID, includeFEN bool) (*JSONMove, error) {
	n, ok := t.Node(id)
	if !ok || n.IsRoot() {
		return nil, errNoMove(id)
	}
	san, err := t.Notation(id)
	if err != nil {
		return nil, err
	}

	jm := &JSONMove{
		ID:         t.MoveHash(id),
		Parent:     t.MoveHash(n.Parent),
		MoveNumber: moveNumber(t, n),
		Color:      n.Side.String(),
		SAN:        san,
		From:       n.From.String(),
		To:         n.To.String(),
		Piece:      pieceTypeName(n.Piece),
		Check:      t.IsCheck(id),
	}
	jm.UCI = jm.From + jm.To
	if promo, ok := t.PromotedTo(id); ok {
		jm.Promotion = pieceTypeName(promo)
		jm.UCI += strings.ToLower(promo.Kind.Letter())
	}
	if c := t.Castled(id); c != chess.NotCastled {
		jm.Castle = c.String()
	}
	if _, mated := t.Checkmated(id); mated {
		jm.Checkmate = true
	}
	if includeFEN {
		jm.FEN = engine.FEN(n.Board, t.State(id))
	}
	return jm, nil
}

// OutputTreeJSON writes the whole tree as indented JSON.
func OutputTreeJSON(t *tree.Tree, includeFEN bool, w io.Writer) error {
	jt, err := TreeToJSON(t, includeFEN)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jt)
}

// OutputRecordsJSON writes the persistence records of the moves leading to
// id, root first, as a JSON array.
func OutputRecordsJSON(t *tree.Tree, id tree.NodeID, w io.Writer) error {
	records := []tree.MoveRecord{}
	for _, mid := range t.AllMoves(id) {
		rec, _, err := t.Record(mid)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// pieceTypeName returns the lower-case name of a piece's kind.
func pieceTypeName(p chess.Piece) string {
	if p.IsEmpty() {
		return ""
	}
	return strings.ToLower(p.Kind.String())
}
