package tree

import (
	"strings"
	"testing"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/testutil"
)

func lineOf(t *testing.T, s string) []PathMove {
	t.Helper()
	var line []PathMove
	for _, m := range testutil.MustLine(t, s) {
		line = append(line, PathMove{From: m.From, To: m.To, Promotion: m.Promo})
	}
	return line
}

func TestReplay_FoldsPrefixes(t *testing.T) {
	tr := New()
	leaf, err := tr.Replay([][]PathMove{
		lineOf(t, "e2e4 c7c5"),
		lineOf(t, "e2e4 e7e5 g1f3"),
		lineOf(t, "d2d4"),
	})
	testutil.AssertNoError(t, err)

	// root, e4, c5, e5, Nf3, d4
	testutil.AssertEqual(t, tr.Len(), 6)
	san, _ := tr.Notation(leaf)
	testutil.AssertEqual(t, san, "Nf3")
	testutil.AssertEqual(t, len(tr.Children(tr.Root())), 2)

	again, err := tr.Replay([][]PathMove{lineOf(t, "e2e4 e7e5 g1f3")})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, again, leaf)
	testutil.AssertEqual(t, tr.Len(), 6)
}

func TestReplay_Empty(t *testing.T) {
	tr := New()
	leaf, err := tr.Replay(nil)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, leaf, tr.Root())
}

func TestReplay_SpecialMoves(t *testing.T) {
	tr := New()
	leaf, err := tr.Replay([][]PathMove{
		lineOf(t, "e2e4 e7e5 g1f3 b8c6 f1c4 g8f6 e1g1"),
		lineOf(t, "e2e4 a7a6 e4e5 d7d5 e5d6"),
	})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, tr.Castled(leaf), chess.CastledShort)

	promo := NewFromPosition(testutil.MustBoard(t, "8/5P2/8/8/8/8/1k1K4/8"), chess.White)
	leaf, err = promo.Replay([][]PathMove{lineOf(t, "f7f8b")})
	testutil.AssertNoError(t, err)
	piece, ok := promo.PromotedTo(leaf)
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, piece, chess.W(chess.Bishop))
}

func TestReplay_Illegal(t *testing.T) {
	tr := New()
	_, err := tr.Replay([][]PathMove{
		lineOf(t, "e2e4"),
		lineOf(t, "e2e4 e7e5 e1e3"),
	})
	testutil.AssertErrorIs(t, err, errors.ErrIllegalMove)

	var moveErr *errors.MoveError
	testutil.AssertTrue(t, errors.As(err, &moveErr))
	testutil.AssertEqual(t, moveErr.To, "e3")
	// The legal prefix stays in the tree.
	testutil.AssertEqual(t, tr.Len(), 3)
}

func TestReplay_ContinuesAfterIllegalLine(t *testing.T) {
	tr := New()
	leaf, err := tr.Replay([][]PathMove{
		lineOf(t, "e2e4 e7e5"),
		lineOf(t, "e2e5"),
		lineOf(t, "d2d4 d7d5 c2c4"),
		lineOf(t, "g1f3 e7e5 f3e5 e8e6"),
	})
	testutil.AssertErrorIs(t, err, errors.ErrIllegalMove)
	testutil.AssertTrue(t, strings.Contains(err.Error(), "line 1"), "error %q names line 1", err)
	testutil.AssertTrue(t, strings.Contains(err.Error(), "line 3"), "error %q names line 3", err)

	// root, e4, e5, d4, d5, c4, Nf3, e5, Nxe5
	testutil.AssertEqual(t, tr.Len(), 9)
	san, _ := tr.Notation(leaf)
	testutil.AssertEqual(t, san, "c4")
}

func TestLine_RoundTrip(t *testing.T) {
	tr := NewFromPosition(testutil.MustBoard(t, "4k3/1P6/8/8/8/8/8/4K3"), chess.White)
	ids := playLine(t, tr, tr.Root(), "b7b8n e8f7 e1e2")
	line := tr.Line(last(ids))
	testutil.AssertEqual(t, line, lineOf(t, "b7b8n e8f7 e1e2"))

	other := NewFromPosition(testutil.MustBoard(t, "4k3/1P6/8/8/8/8/8/4K3"), chess.White)
	leaf, err := other.Replay([][]PathMove{line})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, other.MoveHash(leaf), tr.MoveHash(last(ids)))
}
