package tree

import (
	"encoding/json"
	"testing"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/testutil"
)

func TestRecord(t *testing.T) {
	tr := New()
	ids := playLine(t, tr, tr.Root(), "e2e4 e7e5")

	rec, parent, err := tr.Record(ids[1])
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, rec, MoveRecord{
		ID:   tr.MoveHash(ids[1]),
		Name: "e5",
		From: [2]int{1, 4},
		To:   [2]int{3, 4},
	})
	testutil.AssertEqual(t, parent, tr.MoveHash(ids[0]))

	first, rootHash, err := tr.Record(ids[0])
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, rootHash, tr.MoveHash(tr.Root()))
	testutil.AssertEqual(t, first.Name, "e4")

	_, _, err = tr.Record(tr.Root())
	testutil.AssertErrorIs(t, err, errors.ErrUnknownNode)
}

func TestRecord_Promotion(t *testing.T) {
	tr := NewFromPosition(testutil.MustBoard(t, "8/5P2/8/8/8/8/1k1K4/8"), chess.White)
	ids := playLine(t, tr, tr.Root(), "f7f8r")

	rec, _, err := tr.Record(ids[0])
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, rec.Promotion, "R")
	testutil.AssertEqual(t, rec.Name, "f8=R")

	data, err := json.Marshal(rec)
	testutil.AssertNoError(t, err)
	testutil.AssertContains(t, string(data), `"promotion":"R"`)
}

func TestMoveRecord_JSONOmitsEmptyPromotion(t *testing.T) {
	data, err := json.Marshal(MoveRecord{ID: "abc", Name: "e4", From: [2]int{6, 4}, To: [2]int{4, 4}})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, string(data), `{"id":"abc","name":"e4","from":[6,4],"to":[4,4]}`)
}

func TestMoveRecord_PathMove(t *testing.T) {
	tests := []struct {
		name    string
		rec     MoveRecord
		want    PathMove
		wantErr error
	}{
		{
			name: "plain",
			rec:  MoveRecord{From: [2]int{6, 4}, To: [2]int{4, 4}},
			want: PathMove{From: chess.Pos(6, 4), To: chess.Pos(4, 4)},
		},
		{
			name: "legacy none marker",
			rec:  MoveRecord{From: [2]int{6, 4}, To: [2]int{4, 4}, Promotion: NoPromotion},
			want: PathMove{From: chess.Pos(6, 4), To: chess.Pos(4, 4)},
		},
		{
			name: "knight promotion",
			rec:  MoveRecord{From: [2]int{1, 0}, To: [2]int{0, 0}, Promotion: "N"},
			want: PathMove{From: chess.Pos(1, 0), To: chess.Pos(0, 0), Promotion: chess.Knight},
		},
		{
			name:    "king promotion",
			rec:     MoveRecord{From: [2]int{1, 0}, To: [2]int{0, 0}, Promotion: "K"},
			wantErr: errors.ErrIllegalMove,
		},
		{
			name:    "off board",
			rec:     MoveRecord{From: [2]int{8, 0}, To: [2]int{0, 0}},
			wantErr: errors.ErrInvalidSquare,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rec.PathMove()
			if tt.wantErr != nil {
				testutil.AssertErrorIs(t, err, tt.wantErr)
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, tt.want)
		})
	}
}

func TestPathMove_String(t *testing.T) {
	testutil.AssertEqual(t, PathMove{From: chess.Pos(6, 4), To: chess.Pos(4, 4)}.String(), "e2e4")
	testutil.AssertEqual(t, PathMove{From: chess.Pos(1, 0), To: chess.Pos(0, 0), Promotion: chess.Queen}.String(), "a7a8q")
}

func TestParsePathMove(t *testing.T) {
	tests := []struct {
		in   string
		want PathMove
		err  error
	}{
		{"e2e4", PathMove{From: chess.Pos(6, 4), To: chess.Pos(4, 4)}, nil},
		{"a7a8n", PathMove{From: chess.Pos(1, 0), To: chess.Pos(0, 0), Promotion: chess.Knight}, nil},
		{"a7a8Q", PathMove{From: chess.Pos(1, 0), To: chess.Pos(0, 0), Promotion: chess.Queen}, nil},
		{"a7a8k", PathMove{}, errors.ErrIllegalMove},
		{"e2", PathMove{}, errors.ErrInvalidSquare},
		{"e2e9", PathMove{}, errors.ErrInvalidSquare},
		{"i2e4", PathMove{}, errors.ErrInvalidSquare},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePathMove(tt.in)
			if tt.err != nil {
				testutil.AssertErrorIs(t, err, tt.err)
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, tt.want)
		})
	}
}

func TestParseLine(t *testing.T) {
	line, err := ParseLine("  e2e4 e7e5\tg1f3 ")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(line), 3)
	testutil.AssertEqual(t, line[2].String(), "g1f3")

	empty, err := ParseLine("")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(empty), 0)

	_, err = ParseLine("e2e4 e7")
	testutil.AssertErrorIs(t, err, errors.ErrInvalidSquare)
}
