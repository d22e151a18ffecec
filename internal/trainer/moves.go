package trainer

import (
	"context"
	"fmt"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/eco"
	"github.com/lgbarn/repertoire-go/internal/engine"
	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/hashing"
	"github.com/lgbarn/repertoire-go/internal/output"
	"github.com/lgbarn/repertoire-go/internal/processing"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// NodeView describes one position of a repertoire for navigation.
type NodeView struct {
	Repertoire     string             `json:"repertoire"`
	ID             string             `json:"id"`
	FEN            string             `json:"fen"`
	SideToMove     string             `json:"sideToMove"`
	Move           *output.JSONMove   `json:"move,omitempty"` // nil at the root
	Opening        *eco.Entry         `json:"opening,omitempty"`
	Line           []string           `json:"line"`
	Children       []*output.JSONMove `json:"children"`
	Transpositions []string           `json:"transpositions,omitempty"`
}

// LegalMove is one legal move from a position.
type LegalMove struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

// PlayRequest is a move to record. An empty Parent names the root; an
// empty or "x" Promotion means none.
type PlayRequest struct {
	Parent    string `json:"parent"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// PlayResult is the outcome of Play.
type PlayResult struct {
	Node   *NodeView       `json:"node"`
	Record tree.MoveRecord `json:"record"`
	Parent string          `json:"parent"`
	IsNew  bool            `json:"isNew"`
	Synced bool            `json:"synced"`
}

// Node returns the view of the node with content hash hash.
func (s *Service) Node(ctx context.Context, repertoireID, hash string) (*NodeView, error) {
	var view *NodeView
	err := s.with(ctx, repertoireID, func(r *repertoire) error {
		id, err := r.lookup(hash)
		if err != nil {
			return err
		}
		view, err = r.nodeView(id)
		return err
	})
	return view, err
}

// Export returns the whole tree of a repertoire in JSON form.
func (s *Service) Export(ctx context.Context, repertoireID string) (*output.JSONTree, error) {
	var jt *output.JSONTree
	err := s.with(ctx, repertoireID, func(r *repertoire) error {
		var err error
		jt, err = output.TreeToJSON(r.tree, false)
		return err
	})
	return jt, err
}

// Stats analyses the tree of a repertoire.
func (s *Service) Stats(ctx context.Context, repertoireID string) (*processing.TreeAnalysis, error) {
	var analysis *processing.TreeAnalysis
	err := s.with(ctx, repertoireID, func(r *repertoire) error {
		analysis = processing.AnalyzeTree(r.tree)
		return nil
	})
	return analysis, err
}

// LegalMoves lists the legal moves at a node from the square from, or from
// every square of the side to move when from is empty.
func (s *Service) LegalMoves(ctx context.Context, repertoireID, hash, from string) ([]LegalMove, error) {
	var origins []chess.Position
	if from != "" {
		sq, err := squareOrErr(from)
		if err != nil {
			return nil, err
		}
		origins = []chess.Position{sq}
	}

	moves := []LegalMove{}
	err := s.with(ctx, repertoireID, func(r *repertoire) error {
		id, err := r.lookup(hash)
		if err != nil {
			return err
		}
		if origins == nil {
			origins = r.ownSquares(id)
		}
		for _, sq := range origins {
			for _, m := range r.tree.LegalMoves(id, sq) {
				moves = append(moves, LegalMove{From: sq.String(), To: m.To.String(), Kind: m.Kind.String()})
			}
		}
		return nil
	})
	return moves, err
}

// Play validates a move from the parent node, records it in the tree and
// persists it. When the tree accepted the move but the store did not, the
// result is returned together with an error wrapping ErrStoreSync.
func (s *Service) Play(ctx context.Context, repertoireID string, req PlayRequest) (*PlayResult, error) {
	from, err := squareOrErr(req.From)
	if err != nil {
		return nil, err
	}
	to, err := squareOrErr(req.To)
	if err != nil {
		return nil, err
	}
	promo, err := parsePromotion(req.Promotion)
	if err != nil {
		return nil, err
	}

	var (
		res     *PlayResult
		syncErr error
	)
	err = s.with(ctx, repertoireID, func(r *repertoire) error {
		parent, err := r.lookup(req.Parent)
		if err != nil {
			return err
		}
		id, isNew, err := r.tree.Play(parent, from, to, promo)
		if err != nil {
			return err
		}
		rec, parentHash, err := r.tree.Record(id)
		if err != nil {
			return err
		}

		res = &PlayResult{Record: rec, Parent: parentHash, IsNew: isNew, Synced: true}
		if isNew {
			if syncErr = s.persist(ctx, r, id); syncErr != nil {
				res.Synced = false
			}
		}
		if res.Node, err = r.nodeView(id); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.views.SetView(ctx, repertoireID, res.Record.ID); err != nil {
		s.log.Warnw("view not stored", "repertoire", repertoireID, "error", err)
	}
	s.log.Debugw("move played", "repertoire", repertoireID, "move", res.Record.Name, "new", res.IsNew)
	return res, syncErr
}

// View returns the node a repertoire is viewed at. Without a stored view it
// is the deepest node of the stored lines.
func (s *Service) View(ctx context.Context, repertoireID string) (*NodeView, error) {
	hash, ok, err := s.views.View(ctx, repertoireID)
	if err != nil {
		s.log.Warnw("view not read", "repertoire", repertoireID, "error", err)
		ok = false
	}

	var view *NodeView
	err = s.with(ctx, repertoireID, func(r *repertoire) error {
		id := r.last
		if ok {
			if found, known := r.tree.Lookup(hash); known {
				id = found
			}
		}
		var err error
		view, err = r.nodeView(id)
		return err
	})
	return view, err
}

// SetView moves the view of a repertoire to the node with content hash hash.
func (s *Service) SetView(ctx context.Context, repertoireID, hash string) (*NodeView, error) {
	var view *NodeView
	err := s.with(ctx, repertoireID, func(r *repertoire) error {
		id, err := r.lookup(hash)
		if err != nil {
			return err
		}
		view, err = r.nodeView(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.views.SetView(ctx, repertoireID, view.ID); err != nil {
		return nil, err
	}
	return view, nil
}

// Transpositions returns the hashes of the other nodes reaching the same
// position as the node with content hash hash.
func (s *Service) Transpositions(ctx context.Context, repertoireID, hash string) ([]string, error) {
	var out []string
	err := s.with(ctx, repertoireID, func(r *repertoire) error {
		id, err := r.lookup(hash)
		if err != nil {
			return err
		}
		out = r.transpositions(id)
		return nil
	})
	return out, err
}

// persist indexes the new node id and saves its move. A store failure is
// logged and returned wrapped in ErrStoreSync; the node stays in the tree.
func (s *Service) persist(ctx context.Context, r *repertoire, id tree.NodeID) error {
	sig, _ := hashing.SignatureOf(r.tree, id)
	r.index.Add(sig)

	rec, parentHash, err := r.tree.Record(id)
	if err != nil {
		return err
	}
	if err := s.store.SaveMove(ctx, r.info.ID, parentHash, rec); err != nil {
		s.log.Errorw("move not persisted", "repertoire", r.info.ID, "move", rec.Name, "error", err)
		return fmt.Errorf("%w: %v", errors.ErrStoreSync, err)
	}
	return nil
}

func (r *repertoire) nodeView(id tree.NodeID) (*NodeView, error) {
	n, ok := r.tree.Node(id)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownNode, "node %d", id)
	}
	v := &NodeView{
		Repertoire:     r.info.ID,
		ID:             r.tree.MoveHash(id),
		FEN:            engine.FEN(n.Board, r.tree.State(id)),
		SideToMove:     r.tree.SideToMove(id).String(),
		Line:           []string{},
		Children:       []*output.JSONMove{},
		Transpositions: r.transpositions(id),
	}
	if r.openings != nil {
		v.Opening = r.openings.Classify(r.tree, id)
	}

	var err error
	if !n.IsRoot() {
		if v.Move, err = output.MoveToJSON(r.tree, id, false); err != nil {
			return nil, err
		}
	}
	for _, mid := range r.tree.AllMoves(id) {
		san, err := r.tree.Notation(mid)
		if err != nil {
			return nil, err
		}
		v.Line = append(v.Line, san)
	}
	for _, child := range r.tree.Children(id) {
		jm, err := output.MoveToJSON(r.tree, child, false)
		if err != nil {
			return nil, err
		}
		v.Children = append(v.Children, jm)
	}
	return v, nil
}

func (r *repertoire) transpositions(id tree.NodeID) []string {
	sig, ok := hashing.SignatureOf(r.tree, id)
	if !ok {
		return nil
	}
	var out []string
	for _, other := range r.index.Transpositions(sig) {
		out = append(out, r.tree.MoveHash(other))
	}
	return out
}

// ownSquares returns the squares holding pieces of the side to move at id.
func (r *repertoire) ownSquares(id tree.NodeID) []chess.Position {
	n, _ := r.tree.Node(id)
	side := r.tree.SideToMove(id)
	var out []chess.Position
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			if p := n.Board[row][col]; !p.IsEmpty() && p.Side == side {
				out = append(out, chess.Pos(row, col))
			}
		}
	}
	return out
}

// parsePromotion reads a promotion letter; "" and "x" mean none.
func parsePromotion(s string) (chess.PieceKind, error) {
	if s == "" || s == tree.NoPromotion {
		return chess.NoKind, nil
	}
	if len(s) == 1 {
		switch kind := chess.KindFromLetter(s[0]); kind {
		case chess.Knight, chess.Bishop, chess.Rook, chess.Queen:
			return kind, nil
		}
	}
	return chess.NoKind, &errors.ParseError{Err: errors.ErrIllegalMove, Input: s, Got: fmt.Sprintf("promotion %q", s)}
}
