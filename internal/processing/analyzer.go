// Package processing analyses repertoire trees and validates stored lines.
package processing

import (
	"fmt"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/hashing"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// TreeAnalysis holds counts gathered by walking a whole tree.
type TreeAnalysis struct {
	Nodes           int `json:"nodes"` // including the root
	Lines           int `json:"lines"` // leaves below the root
	MaxDepth        int `json:"maxDepth"`
	Checks          int `json:"checks"`
	Checkmates      int `json:"checkmates"`
	Castles         int `json:"castles"`
	Promotions      int `json:"promotions"`
	Underpromotions int `json:"underpromotions"`
	Transpositions  int `json:"transpositions"`
}

// HasUnderpromotion returns true if any line promotes to a non-queen.
func (ta *TreeAnalysis) HasUnderpromotion() bool {
	return ta.Underpromotions > 0
}

// ValidationResult holds the result of line validation.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	ErrorLine int    `json:"errorLine,omitempty"`
	ErrorPly  int    `json:"errorPly,omitempty"` // 1-based half-move within the line
	ErrorMsg  string `json:"error,omitempty"`
}

// AnalyzeTree walks every node of t.
func AnalyzeTree(t *tree.Tree) *TreeAnalysis {
	analysis := &TreeAnalysis{Nodes: t.Len()}

	depth := make(map[tree.NodeID]int, t.Len())
	for id := tree.RootID; int(id) < t.Len(); id++ {
		n, _ := t.Node(id)
		if n.IsRoot() {
			continue
		}
		depth[id] = depth[n.Parent] + 1
		if depth[id] > analysis.MaxDepth {
			analysis.MaxDepth = depth[id]
		}
		if len(n.Children) == 0 {
			analysis.Lines++
		}

		if t.IsCheck(id) {
			analysis.Checks++
		}
		if _, mated := t.Checkmated(id); mated {
			analysis.Checkmates++
		}
		if t.Castled(id) != chess.NotCastled {
			analysis.Castles++
		}
		if promo, ok := t.PromotedTo(id); ok {
			analysis.Promotions++
			if promo.Kind != chess.Queen {
				analysis.Underpromotions++
			}
		}
	}

	analysis.Transpositions = hashing.NewIndex().AddTree(t)
	return analysis
}

// ValidateLines replays lines on a scratch tree started from fen (the
// standard start when empty) and reports the first illegal move.
func ValidateLines(fen string, lines [][]tree.PathMove) *ValidationResult {
	result := &ValidationResult{Valid: true}

	t := tree.New()
	if fen != "" {
		var err error
		if t, err = tree.NewFromFEN(fen); err != nil {
			result.Valid = false
			result.ErrorMsg = fmt.Sprintf("invalid FEN: %s", fen)
			return result
		}
	}

	for i, line := range lines {
		cur := t.Root()
		for ply, m := range line {
			next, _, err := t.Play(cur, m.From, m.To, m.Promotion)
			if err != nil {
				result.Valid = false
				result.ErrorLine = i + 1
				result.ErrorPly = ply + 1
				result.ErrorMsg = describe(err, m)
				return result
			}
			cur = next
		}
	}
	return result
}

func describe(err error, m tree.PathMove) string {
	if errors.Is(err, errors.ErrIllegalMove) {
		return fmt.Sprintf("illegal move %s", m)
	}
	return err.Error()
}
