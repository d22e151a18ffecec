package trainer

import (
	"context"
	"fmt"

	"github.com/lgbarn/repertoire-go/internal/eco"
	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/matching"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// SearchRequest selects lines of a repertoire. Moves is a SAN sequence such
// as "1. e4 c5 2. Nf3" that must occur in the line; Material is a pattern
// such as "QR:qr" that some position of the line must have. Empty fields
// do not filter.
type SearchRequest struct {
	Moves         string `json:"moves,omitempty"`
	Material      string `json:"material,omitempty"`
	ExactMaterial bool   `json:"exactMaterial,omitempty"`
}

// LineView is one root-to-leaf line.
type LineView struct {
	ID      string     `json:"id"`
	Line    []string   `json:"line"`
	Opening *eco.Entry `json:"opening,omitempty"`
}

// Search returns the lines of a repertoire matching req, in the order
// their leaves were added.
func (s *Service) Search(ctx context.Context, repertoireID string, req SearchRequest) ([]LineView, error) {
	m, err := req.matcher()
	if err != nil {
		return nil, err
	}

	lines := []LineView{}
	err = s.with(ctx, repertoireID, func(r *repertoire) error {
		for _, leaf := range matching.FindLines(r.tree, m) {
			lv, err := r.lineView(leaf)
			if err != nil {
				return err
			}
			lines = append(lines, lv)
		}
		return nil
	})
	return lines, err
}

func (req SearchRequest) matcher() (matching.LineMatcher, error) {
	all := matching.NewCompositeMatcher(matching.MatchAll)
	if req.Moves != "" {
		vm := matching.NewVariationMatcher()
		vm.AddMoveSequence(matching.ParseMoveSequence(req.Moves))
		all.Add(vm)
	}
	if req.Material != "" {
		mm, err := matching.NewMaterialMatcher(req.Material, req.ExactMaterial)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrBadRequest, err)
		}
		all.Add(mm)
	}
	return all, nil
}

func (r *repertoire) lineView(id tree.NodeID) (LineView, error) {
	lv := LineView{ID: r.tree.MoveHash(id), Line: []string{}}
	for _, mid := range r.tree.AllMoves(id) {
		san, err := r.tree.Notation(mid)
		if err != nil {
			return LineView{}, err
		}
		lv.Line = append(lv.Line, san)
	}
	if r.openings != nil {
		lv.Opening = r.openings.Classify(r.tree, id)
	}
	return lv, nil
}
