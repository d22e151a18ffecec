package matching

import (
	"fmt"
	"strings"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// materialCounts holds piece counts indexed by side and kind.
type materialCounts [2][chess.King + 1]int

// MaterialMatcher matches lines passing through a material balance.
type MaterialMatcher struct {
	// Pattern like "QR:qrr" means white has Q+R, black has Q+2R
	pattern    string
	exactMatch bool
	want       materialCounts
}

// NewMaterialMatcher creates a new material matcher.
// Pattern format: "QRN:qrn" (white pieces : black pieces)
// Use uppercase for white, lowercase for black
// K=King, Q=Queen, R=Rook, B=Bishop, N=Knight, P=Pawn
// Kings are implied and never need to be written.
func NewMaterialMatcher(pattern string, exact bool) (*MaterialMatcher, error) {
	mm := &MaterialMatcher{pattern: pattern, exactMatch: exact}
	if err := mm.parsePattern(pattern); err != nil {
		return nil, err
	}
	return mm, nil
}

// parsePattern parses a material pattern like "QR:qrr"
func (mm *MaterialMatcher) parsePattern(pattern string) error {
	parts := strings.Split(pattern, ":")
	if len(parts) > 2 {
		return fmt.Errorf("material pattern %q: more than one ':'", pattern)
	}
	for i, part := range parts {
		side := chess.White
		if i == 1 {
			side = chess.Black
		}
		for j := 0; j < len(part); j++ {
			c := part[j]
			kind := chess.KindFromLetter(c)
			if kind == chess.NoKind || (side == chess.White) != (c >= 'A' && c <= 'Z') {
				return fmt.Errorf("material pattern %q: unexpected %q", pattern, c)
			}
			mm.want[side][kind]++
		}
	}
	return nil
}

// Match reports whether any position on the line, the start included,
// has the wanted material.
func (mm *MaterialMatcher) Match(t *tree.Tree, id tree.NodeID) bool {
	if !t.Has(id) {
		return false
	}
	if mm.matchNode(t, t.Root()) {
		return true
	}
	for _, mid := range t.AllMoves(id) {
		if mm.matchNode(t, mid) {
			return true
		}
	}
	return false
}

func (mm *MaterialMatcher) matchNode(t *tree.Tree, id tree.NodeID) bool {
	n, ok := t.Node(id)
	if !ok {
		return false
	}
	return mm.matchPosition(&n.Board)
}

// matchPosition checks if a position matches the material pattern.
func (mm *MaterialMatcher) matchPosition(board *chess.Board) bool {
	var have materialCounts
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			if p := board[row][col]; !p.IsEmpty() {
				have[p.Side][p.Kind]++
			}
		}
	}

	for side := range mm.want {
		for kind := chess.Pawn; kind <= chess.King; kind++ {
			want, got := mm.want[side][kind], have[side][kind]
			if got < want {
				return false
			}
			// Exact patterns also forbid pieces they do not mention.
			if mm.exactMatch && kind != chess.King && got != want {
				return false
			}
		}
	}
	return true
}

// HasCriteria returns true if a material pattern is set.
func (mm *MaterialMatcher) HasCriteria() bool {
	return mm.pattern != ""
}

// Name implements LineMatcher.
func (mm *MaterialMatcher) Name() string {
	return "MaterialMatcher(" + mm.pattern + ")"
}
