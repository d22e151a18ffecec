package matching

import (
	"strings"
	"testing"

	"github.com/lgbarn/repertoire-go/internal/testutil"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// Final placement of 1. d4 d5 2. c4 e6, also reached by 1. c4 e6 2. d4 d5.
const qgdPlacement = "rnbqkbnr/ppp2ppp/4p3/3p4/2PP4/8/PP2PPPP/RNBQKBNR"

func buildTree(t *testing.T, lines ...string) *tree.Tree {
	t.Helper()
	tr := tree.New()
	parsed := make([][]tree.PathMove, 0, len(lines))
	for _, l := range lines {
		line, err := tree.ParseLine(l)
		testutil.AssertNoError(t, err, "ParseLine(%q)", l)
		parsed = append(parsed, line)
	}
	_, err := tr.Replay(parsed)
	testutil.AssertNoError(t, err)
	return tr
}

// repertoire leaves, in order: Italian, Sicilian, QGD, English into QGD.
func repertoire(t *testing.T) (*tree.Tree, []tree.NodeID) {
	t.Helper()
	tr := buildTree(t,
		"e2e4 e7e5 g1f3 b8c6 f1c4",
		"e2e4 c7c5 g1f3",
		"d2d4 d7d5 c2c4 e7e6",
		"c2c4 e7e6 d2d4 d7d5",
	)
	leaves := tr.Leaves()
	testutil.AssertEqual(t, len(leaves), 4)
	return tr, leaves
}

func TestVariationMatcher_Moves(t *testing.T) {
	tr, leaves := repertoire(t)

	tests := []struct {
		name string
		seq  string
		want []tree.NodeID
	}{
		{"shared move", "Nf3", []tree.NodeID{leaves[0], leaves[1]}},
		{"numbered prefix", "1. e4 e5", []tree.NodeID{leaves[0]}},
		{"wildcard", "e5 * Nc6", []tree.NodeID{leaves[0]}},
		{"contiguous only", "d5 c4", []tree.NodeID{leaves[2]}},
		{"black to move numbering", "1... e6 2. d4", []tree.NodeID{leaves[3]}},
		{"no match", "Nf6", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := NewVariationMatcher()
			vm.AddMoveSequence(ParseMoveSequence(tt.seq))
			testutil.AssertEqual(t, FindLines(tr, vm), tt.want)
		})
	}
}

func TestVariationMatcher_Positions(t *testing.T) {
	tr, leaves := repertoire(t)

	vm := NewVariationMatcher()
	testutil.AssertNoError(t, vm.AddPositionSequence([]string{qgdPlacement + " w KQkq - 0 3"}))
	testutil.AssertEqual(t, FindLines(tr, vm), []tree.NodeID{leaves[2], leaves[3]})

	// After 1. d4 the English order never passes this square layout.
	ordered := NewVariationMatcher()
	testutil.AssertNoError(t, ordered.AddPositionSequence([]string{
		"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR",
		qgdPlacement,
	}))
	testutil.AssertEqual(t, FindLines(tr, ordered), []tree.NodeID{leaves[2]})

	// Reversed order cannot match.
	reversed := NewVariationMatcher()
	testutil.AssertNoError(t, reversed.AddPositionSequence([]string{
		qgdPlacement,
		"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR",
	}))
	testutil.AssertEqual(t, FindLines(tr, reversed), []tree.NodeID(nil))

	testutil.AssertError(t, vm.AddPositionSequence([]string{"rnbqkbnr/9"}))
}

func TestVariationMatcher_Empty(t *testing.T) {
	tr, leaves := repertoire(t)
	vm := NewVariationMatcher()
	testutil.AssertFalse(t, vm.HasCriteria())
	testutil.AssertEqual(t, FindLines(tr, vm), leaves)

	vm.AddMoveSequence(nil)
	testutil.AssertFalse(t, vm.HasCriteria())
}

func TestVariationMatcher_UnknownNode(t *testing.T) {
	tr, _ := repertoire(t)
	vm := NewVariationMatcher()
	vm.AddMoveSequence([]string{"e4"})
	testutil.AssertFalse(t, vm.Match(tr, tree.NodeID(99)))
}

func TestNormalizeMove(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"O-O+", "0-0"},
		{"O-O-O#", "0-0-0"},
		{"0-0", "0-0"},
		{"Nf3!?", "Nf3"},
		{"e8=Q+", "e8=Q"},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, normalizeMove(tt.in), tt.want, "normalizeMove(%q)", tt.in)
	}
}

func TestParseMoveSequence(t *testing.T) {
	got := ParseMoveSequence("1. e4 e5 2.Nf3 2...Nc6 3. Bc4 Bc5 4. O-O 0-0")
	testutil.AssertEqual(t, got, []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5", "0-0", "0-0"})
}

func TestVariationMatcher_LoadFromReader(t *testing.T) {
	tr, leaves := repertoire(t)

	input := "# openings\n\n1. e4 c5\nfen:" + qgdPlacement + "\n"
	vm := NewVariationMatcher()
	testutil.AssertNoError(t, vm.LoadFromReader(strings.NewReader(input)))
	testutil.AssertEqual(t, vm.Name(), "VariationMatcher(1 moves, 1 positions)")
	testutil.AssertEqual(t, FindLines(tr, vm), []tree.NodeID{leaves[1], leaves[2], leaves[3]})

	err := NewVariationMatcher().LoadFromReader(strings.NewReader("e4\n\nfen:xyz\n"))
	testutil.AssertError(t, err)
	testutil.AssertContains(t, err.Error(), "variations line 3")

	err = NewVariationMatcher().LoadFromFile("/nonexistent/variations.txt")
	testutil.AssertError(t, err)
	testutil.AssertContains(t, err.Error(), "cannot open variations file")
}

func TestMaterialMatcher_Parse(t *testing.T) {
	for _, pattern := range []string{"QR:qrr", "PPPP", ":q", ""} {
		_, err := NewMaterialMatcher(pattern, false)
		testutil.AssertNoError(t, err, "NewMaterialMatcher(%q)", pattern)
	}
	for _, pattern := range []string{"QX:q", "q:Q", "Q:q:r", "Q2"} {
		_, err := NewMaterialMatcher(pattern, false)
		testutil.AssertError(t, err, "NewMaterialMatcher(%q)", pattern)
	}
}

func TestMaterialMatcher_Positions(t *testing.T) {
	tests := []struct {
		name    string
		board   string
		pattern string
		exact   bool
		want    bool
	}{
		{"bare kings exact", "4k3/8/8/8/8/8/8/4K3", "", true, true},
		{"bare kings missing rook", "4k3/8/8/8/8/8/8/4K3", "R:", false, false},
		{"rook ending minimal", "4k3/r7/8/8/8/8/P7/R3K3", "R:r", false, true},
		{"rook ending exact with pawn", "4k3/r7/8/8/8/8/P7/R3K3", "R:r", true, false},
		{"rook ending exact", "4k3/r7/8/8/8/8/P7/R3K3", "RP:r", true, true},
		{"double rooks", "4k3/rr6/8/8/8/8/8/Q3K3", "Q:rr", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mm, err := NewMaterialMatcher(tt.pattern, tt.exact)
			testutil.AssertNoError(t, err)
			b := testutil.MustBoard(t, tt.board)
			testutil.AssertEqual(t, mm.matchPosition(&b), tt.want)
		})
	}
}

func TestMaterialMatcher_Lines(t *testing.T) {
	tr := buildTree(t,
		"e2e4 e7e5 g1f3",
		"e2e4 d7d5 e4d5 d8d5",
	)
	leaves := tr.Leaves()

	full, err := NewMaterialMatcher("QRRBBNNPPPPPPPP:qrrbbnnpppppppp", true)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, FindLines(tr, full), leaves)

	// Reached after exd5, before the queen recaptures.
	pawnUp, err := NewMaterialMatcher("QRRBBNNPPPPPPPP:qrrbbnnppppppp", true)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, FindLines(tr, pawnUp), []tree.NodeID{leaves[1]})

	testutil.AssertTrue(t, pawnUp.HasCriteria())
	testutil.AssertFalse(t, pawnUp.Match(tr, tree.NodeID(99)))
}

func TestCompositeMatcher(t *testing.T) {
	tr := buildTree(t,
		"e2e4 e7e5 g1f3",
		"e2e4 d7d5 e4d5 d8d5",
		"d2d4 d7d5",
	)
	leaves := tr.Leaves()

	e4 := NewVariationMatcher()
	e4.AddMoveSequence([]string{"e4"})
	d5 := NewVariationMatcher()
	d5.AddMoveSequence([]string{"d5"})

	all := NewCompositeMatcher(MatchAll, e4, d5)
	testutil.AssertEqual(t, FindLines(tr, all), []tree.NodeID{leaves[1]})
	testutil.AssertEqual(t, all.Mode(), MatchAll)

	anyOf := NewCompositeMatcher(MatchAny, e4)
	anyOf.Add(d5)
	testutil.AssertEqual(t, FindLines(tr, anyOf), leaves)
	testutil.AssertEqual(t, len(anyOf.Matchers()), 2)
	testutil.AssertEqual(t, anyOf.Name(),
		"CompositeMatcher(OR: VariationMatcher(1 moves, 0 positions), VariationMatcher(1 moves, 0 positions))")

	testutil.AssertTrue(t, NewCompositeMatcher(MatchAll).Match(tr, leaves[0]))
	testutil.AssertFalse(t, NewCompositeMatcher(MatchAny).Match(tr, leaves[0]))
	testutil.AssertEqual(t, NewCompositeMatcher(MatchAny).Name(), "CompositeMatcher(empty)")
}

func TestFindLines_RootOnly(t *testing.T) {
	tr := tree.New()
	testutil.AssertEqual(t, FindLines(tr, NewVariationMatcher()), []tree.NodeID(nil))
}
