package processing

import (
	"testing"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/testutil"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

func lineOf(t *testing.T, s string) []tree.PathMove {
	t.Helper()
	var line []tree.PathMove
	for _, m := range testutil.MustLine(t, s) {
		line = append(line, tree.PathMove{From: m.From, To: m.To, Promotion: m.Promo})
	}
	return line
}

func TestAnalyzeTree(t *testing.T) {
	tr := tree.New()
	_, err := tr.Replay([][]tree.PathMove{
		lineOf(t, "e2e4 e7e5 g1f3 b8c6 f1c4 g8f6 e1g1"),
		lineOf(t, "f2f3 e7e5 g2g4 d8h4"),
		lineOf(t, "g1f3 g8f6 b1c3"),
		lineOf(t, "b1c3 g8f6 g1f3"),
	})
	testutil.AssertNoError(t, err)

	got := AnalyzeTree(tr)
	want := &TreeAnalysis{
		Nodes:          tr.Len(),
		Lines:          4,
		MaxDepth:       7,
		Checks:         1,
		Checkmates:     1,
		Castles:        1,
		Transpositions: 1,
	}
	testutil.AssertEqual(t, got, want)
	testutil.AssertFalse(t, got.HasUnderpromotion(), "HasUnderpromotion")
}

func TestAnalyzeTree_Promotions(t *testing.T) {
	tr := tree.NewFromPosition(testutil.MustBoard(t, "8/5P1P/8/8/8/8/1k1K4/8"), chess.White)
	_, err := tr.Replay([][]tree.PathMove{
		lineOf(t, "f7f8q"),
		lineOf(t, "h7h8n"),
	})
	testutil.AssertNoError(t, err)

	got := AnalyzeTree(tr)
	testutil.AssertEqual(t, got.Promotions, 2)
	testutil.AssertEqual(t, got.Underpromotions, 1)
	testutil.AssertTrue(t, got.HasUnderpromotion(), "HasUnderpromotion")
}

func TestAnalyzeTree_Empty(t *testing.T) {
	got := AnalyzeTree(tree.New())
	testutil.AssertEqual(t, got, &TreeAnalysis{Nodes: 1})
}

func TestValidateLines(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		lines []string
		want  *ValidationResult
	}{
		{
			name:  "legal",
			lines: []string{"e2e4 e7e5", "d2d4"},
			want:  &ValidationResult{Valid: true},
		},
		{
			name:  "illegal in second line",
			lines: []string{"e2e4 e7e5", "d2d4 d7d5 e1e3"},
			want:  &ValidationResult{ErrorLine: 2, ErrorPly: 3, ErrorMsg: "illegal move e1e3"},
		},
		{
			name:  "from a position",
			fen:   "4k3/8/8/8/8/8/8/4K3 b - - 0 1",
			lines: []string{"e8d7 e1d2"},
			want:  &ValidationResult{Valid: true},
		},
		{
			name:  "bad fen",
			fen:   "nonsense",
			lines: nil,
			want:  &ValidationResult{ErrorMsg: "invalid FEN: nonsense"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lines [][]tree.PathMove
			for _, l := range tt.lines {
				lines = append(lines, lineOf(t, l))
			}
			testutil.AssertEqual(t, ValidateLines(tt.fen, lines), tt.want)
		})
	}
}
