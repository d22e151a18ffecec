package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/config"
	"github.com/lgbarn/repertoire-go/internal/errors"
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

// branchingTree holds 1.e4 e5 2.Nf3, 1.e4 c5 and 1.d4 d5.
func branchingTree(t *testing.T) *tree.Tree {
	tr := tree.New()
	play(t, tr, "e2e4 e7e5 g1f3")
	play(t, tr, "e2e4 c7c5")
	play(t, tr, "d2d4 d7d5")
	return tr
}

func TestOutputWriter_Wraps(t *testing.T) {
	var buf bytes.Buffer
	ow := NewOutputWriter(&buf, 10)
	for _, s := range []string{"1.", "e4", "e5", "2.", "Nf3"} {
		ow.Write(s)
	}
	ow.NewLine()
	testutil.AssertEqual(t, buf.String(), "1. e4 e5\n2. Nf3\n")
}

func TestOutputLine(t *testing.T) {
	tr := tree.New()
	id := play(t, tr, "e2e4 e7e5 g1f3")

	var buf bytes.Buffer
	err := OutputLine(tr, id, config.NewOutputConfig(), &buf)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, buf.String(), "1. e4 e5 2. Nf3\n")
}

func TestOutputLine_BlackFirst(t *testing.T) {
	tr := tree.NewFromPosition(testutil.MustBoard(t, "4k3/8/8/8/8/8/8/4K3"), chess.Black)
	id := play(t, tr, "e8d7 e1e2")

	var buf bytes.Buffer
	err := OutputLine(tr, id, config.NewOutputConfig(), &buf)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, buf.String(), "1... Kd7 2. Ke2\n")
}

func TestOutputTree(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.OutputConfig)
		want   string
	}{
		{
			name:   "variations",
			modify: func(*config.OutputConfig) {},
			want:   "1. e4 (1. d4 d5) 1... e5 (1... c5) 2. Nf3\n",
		},
		{
			name:   "main line only",
			modify: func(c *config.OutputConfig) { c.KeepVariations = false },
			want:   "1. e4 e5 2. Nf3\n",
		},
		{
			name:   "no move numbers",
			modify: func(c *config.OutputConfig) { c.KeepMoveNumbers = false },
			want:   "e4 (d4 d5) e5 (c5) Nf3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewOutputConfig()
			tt.modify(cfg)

			var buf bytes.Buffer
			testutil.AssertNoError(t, OutputTree(branchingTree(t), cfg, &buf))
			testutil.AssertEqual(t, buf.String(), tt.want)
		})
	}
}

func TestOutputTree_Empty(t *testing.T) {
	var buf bytes.Buffer
	testutil.AssertNoError(t, OutputTree(tree.New(), config.NewOutputConfig(), &buf))
	testutil.AssertEqual(t, buf.String(), "\n")
}

func TestTreeToJSON(t *testing.T) {
	tr := branchingTree(t)

	var buf bytes.Buffer
	testutil.AssertNoError(t, OutputTreeJSON(tr, false, &buf))

	var got JSONTree
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decoding output: %v", err)
	}

	testutil.AssertEqual(t, got.Root, tr.MoveHash(tr.Root()))
	testutil.AssertEqual(t, got.InitialFEN, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	testutil.AssertEqual(t, got.Nodes, 7)
	testutil.AssertEqual(t, len(got.Moves), 2)

	e4 := got.Moves[0]
	testutil.AssertEqual(t, e4.SAN, "e4")
	testutil.AssertEqual(t, e4.UCI, "e2e4")
	testutil.AssertEqual(t, e4.Color, "white")
	testutil.AssertEqual(t, e4.Piece, "pawn")
	testutil.AssertEqual(t, e4.MoveNumber, 1)
	testutil.AssertEqual(t, e4.Parent, got.Root)
	testutil.AssertEqual(t, e4.FEN, "")

	var replies []string
	for _, m := range e4.Variations {
		replies = append(replies, m.SAN)
		testutil.AssertEqual(t, m.Parent, e4.ID)
	}
	testutil.AssertEqual(t, replies, []string{"e5", "c5"})
	testutil.AssertEqual(t, e4.Variations[0].Variations[0].SAN, "Nf3")
}

func TestMoveToJSON(t *testing.T) {
	t.Run("mate", func(t *testing.T) {
		tr := tree.New()
		id := play(t, tr, "f2f3 e7e5 g2g4 d8h4")
		jm, err := MoveToJSON(tr, id, true)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, jm.SAN, "Qh4#")
		testutil.AssertTrue(t, jm.Check, "Check")
		testutil.AssertTrue(t, jm.Checkmate, "Checkmate")
		testutil.AssertEqual(t, jm.Color, "black")
		testutil.AssertEqual(t, jm.FEN, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 0 1")
	})

	t.Run("castle", func(t *testing.T) {
		tr := tree.New()
		id := play(t, tr, "e2e4 e7e5 g1f3 b8c6 f1c4 g8f6 e1g1")
		jm, err := MoveToJSON(tr, id, false)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, jm.Castle, "short")
		testutil.AssertEqual(t, jm.Piece, "king")
		testutil.AssertEqual(t, jm.MoveNumber, 4)
	})

	t.Run("underpromotion", func(t *testing.T) {
		tr := tree.NewFromPosition(testutil.MustBoard(t, "8/5P2/8/8/8/8/1k1K4/8"), chess.White)
		id := play(t, tr, "f7f8n")
		jm, err := MoveToJSON(tr, id, false)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, jm.UCI, "f7f8n")
		testutil.AssertEqual(t, jm.Promotion, "knight")
		testutil.AssertEqual(t, jm.Piece, "pawn")
	})

	t.Run("root", func(t *testing.T) {
		tr := tree.New()
		_, err := MoveToJSON(tr, tr.Root(), false)
		testutil.AssertErrorIs(t, err, errors.ErrUnknownNode)
	})
}

func TestOutputRecordsJSON(t *testing.T) {
	tr := tree.New()
	id := play(t, tr, "e2e4 e7e5")

	var buf bytes.Buffer
	testutil.AssertNoError(t, OutputRecordsJSON(tr, id, &buf))

	var got []tree.MoveRecord
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	testutil.AssertEqual(t, len(got), 2)
	testutil.AssertEqual(t, got[0].Name, "e4")
	testutil.AssertEqual(t, got[0].From, [2]int{6, 4})
	testutil.AssertEqual(t, got[1].Name, "e5")
	testutil.AssertEqual(t, got[1].ID, tr.MoveHash(id))
}

func TestNewTreeWriter(t *testing.T) {
	cfg := config.NewOutputConfig()
	if _, ok := NewTreeWriter(&bytes.Buffer{}, cfg).(*MovetextWriter); !ok {
		t.Error("default writer is not a MovetextWriter")
	}
	cfg.JSONFormat = true
	if _, ok := NewTreeWriter(&bytes.Buffer{}, cfg).(*JSONWriter); !ok {
		t.Error("JSON writer not selected")
	}

	tr := tree.New()
	id := play(t, tr, "e2e4")
	var buf bytes.Buffer
	testutil.AssertNoError(t, NewMovetextWriter(&buf, config.NewOutputConfig()).WriteLine(tr, id))
	testutil.AssertEqual(t, buf.String(), "1. e4\n")
}
