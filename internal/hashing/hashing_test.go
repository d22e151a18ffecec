package hashing

import (
	"testing"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/testutil"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

func play(t *testing.T, tr *tree.Tree, line string) tree.NodeID {
	t.Helper()
	id := tr.Root()
	for _, m := range testutil.MustLine(t, line) {
		next, _, err := tr.Play(id, m.From, m.To, m.Promo)
		if err != nil {
			t.Fatalf("Play(%v%v) error: %v", m.From, m.To, err)
		}
		id = next
	}
	return id
}

func TestZobristHashConsistency(t *testing.T) {
	b1 := chess.InitialBoard()
	b2 := chess.InitialBoard()

	if GenerateZobristHash(b1, chess.White) != GenerateZobristHash(b2, chess.White) {
		t.Error("identical boards produced different hashes")
	}
	if WeakHash(b1) != WeakHash(b2) {
		t.Error("identical boards produced different weak hashes")
	}
}

func TestZobristHashDifferentPositions(t *testing.T) {
	b1 := chess.InitialBoard()
	b2 := chess.InitialBoard()
	b2.Clear(chess.Pos(6, 4))
	b2.Set(chess.Pos(4, 4), chess.W(chess.Pawn))

	if GenerateZobristHash(b1, chess.White) == GenerateZobristHash(b2, chess.White) {
		t.Error("different positions produced the same hash")
	}
	if GenerateZobristHash(b1, chess.White) == GenerateZobristHash(b1, chess.Black) {
		t.Error("side to move did not change the hash")
	}
}

func TestIndex_Transposition(t *testing.T) {
	tr := tree.New()
	a := play(t, tr, "g1f3 g8f6 b1c3")
	b := play(t, tr, "b1c3 g8f6 g1f3")

	x := NewIndex()
	found := x.AddTree(tr)

	testutil.AssertEqual(t, found, 1)
	testutil.AssertEqual(t, x.TranspositionCount(), 1)

	sig, ok := SignatureOf(tr, b)
	testutil.AssertTrue(t, ok, "SignatureOf")
	testutil.AssertEqual(t, x.Transpositions(sig), []tree.NodeID{a})
}

func TestIndex_SideToMoveMatters(t *testing.T) {
	// Knights out and back returns to the start with White to move.
	tr := tree.New()
	back := play(t, tr, "g1f3 g8f6 f3g1 f6g8")

	x := NewIndex()
	x.AddTree(tr)

	sig, _ := SignatureOf(tr, back)
	testutil.AssertEqual(t, x.Transpositions(sig), []tree.NodeID{tr.Root()})

	// After 1.Nf3 Nf6 2.Ng1 Black is to move with the knight on f6; no
	// other node shares it.
	mid := tr.Parent(back)
	sig, _ = SignatureOf(tr, mid)
	testutil.AssertEqual(t, len(x.Transpositions(sig)), 0)
}

func TestIndex_AddSameNodeTwice(t *testing.T) {
	tr := tree.New()
	id := play(t, tr, "e2e4")
	sig, _ := SignatureOf(tr, id)

	x := NewIndex()
	testutil.AssertFalse(t, x.Add(sig), "first Add")
	testutil.AssertFalse(t, x.Add(sig), "second Add")
	testutil.AssertEqual(t, x.UniqueCount(), 1)
	testutil.AssertEqual(t, x.TranspositionCount(), 0)
}

func TestIndex_Reset(t *testing.T) {
	tr := tree.New()
	play(t, tr, "e2e4 e7e5")

	x := NewIndex()
	x.AddTree(tr)
	testutil.AssertEqual(t, x.UniqueCount(), 3)

	x.Reset()
	testutil.AssertEqual(t, x.UniqueCount(), 0)
	testutil.AssertEqual(t, x.TranspositionCount(), 0)
}

func TestSignatureOf_UnknownNode(t *testing.T) {
	_, ok := SignatureOf(tree.New(), tree.NodeID(3))
	testutil.AssertFalse(t, ok, "SignatureOf(3)")
}
