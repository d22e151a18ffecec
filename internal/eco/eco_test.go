package eco

import (
	"strings"
	"testing"

	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/testutil"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

const testECOData = `
# code	opening	variation	moves
B90	Sicilian	Najdorf	e2e4 c7c5 g1f3 d7d6 d2d4 c5d4 f3d4 g8f6 b1c3 a7a6
C50	Giuoco Piano		e2e4 e7e5 g1f3 b8c6 f1c4 f8c5
D35	QGD	Exchange Variation	d2d4 d7d5 c2c4 e7e6 b1c3 g8f6 c4d5 e6d5
`

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c := NewClassifier()
	if err := c.LoadFromReader(strings.NewReader(testECOData)); err != nil {
		t.Fatalf("failed to load ECO data: %v", err)
	}
	return c
}

// classify replays line into a fresh tree and classifies its last node.
func classify(t *testing.T, c *Classifier, line string) *Entry {
	t.Helper()
	moves, err := tree.ParseLine(line)
	testutil.AssertNoError(t, err)
	tr := tree.New()
	id, err := tr.Replay([][]tree.PathMove{moves})
	testutil.AssertNoError(t, err)
	return c.Classify(tr, id)
}

func TestClassifierLoad(t *testing.T) {
	c := newTestClassifier(t)
	if got := c.EntriesLoaded(); got != 3 {
		t.Errorf("EntriesLoaded() = %d; want 3", got)
	}
}

func TestClassify(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name string
		line string
		want string // "" for no match
	}{
		{"exact Najdorf", "e2e4 c7c5 g1f3 d7d6 d2d4 c5d4 f3d4 g8f6 b1c3 a7a6", "B90"},
		{"beyond the table line", "e2e4 c7c5 g1f3 d7d6 d2d4 c5d4 f3d4 g8f6 b1c3 a7a6 f1e2 e7e5 d4b3", "B90"},
		{"Giuoco Piano", "e2e4 e7e5 g1f3 b8c6 f1c4 f8c5", "C50"},
		{"no match", "a2a3", ""},
		{"short of every line", "e2e4 c7c5", ""},
		{"QGD by transposition", "d2d4 g8f6 c2c4 e7e6 b1c3 d7d5 c4d5 e6d5", "D35"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(t, c, tt.line)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Classify() = %s; want nil", got.Code)
				}
				return
			}
			if got == nil {
				t.Fatalf("Classify() = nil; want %s", tt.want)
			}
			testutil.AssertEqual(t, got.Code, tt.want)
		})
	}
}

func TestClassify_RootAndEmpty(t *testing.T) {
	tr := tree.New()
	if got := newTestClassifier(t).Classify(tr, tr.Root()); got != nil {
		t.Errorf("Classify(root) = %s; want nil", got.Code)
	}
	if got := classify(t, NewClassifier(), "e2e4"); got != nil {
		t.Errorf("empty classifier returned %s", got.Code)
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	testutil.AssertTrue(t, c.EntriesLoaded() > 30, "built-in table has %d entries", c.EntriesLoaded())

	najdorf := classify(t, c, "e2e4 c7c5 g1f3 d7d6 d2d4 c5d4 f3d4 g8f6 b1c3 a7a6")
	testutil.AssertEqual(t, najdorf.Name(), "Sicilian Defence: Najdorf Variation")

	sicilian := classify(t, c, "e2e4 c7c5 b1c3")
	testutil.AssertEqual(t, sicilian.Code, "B20")
	testutil.AssertEqual(t, sicilian.Name(), "Sicilian Defence")

	// 1.c4 e6 2.Nc3 Nf6 3.d4 Bb4 reaches the Nimzo-Indian by another order.
	nimzo := classify(t, c, "c2c4 e7e6 b1c3 g8f6 d2d4 f8b4")
	testutil.AssertEqual(t, nimzo.Code, "E20")
}

func TestLoadFromReader_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"illegal move", "X00\tBroken\t\te2e5\n", errors.ErrIllegalMove},
		{"bad square", "X00\tBroken\t\te2e9\n", errors.ErrInvalidSquare},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewClassifier().LoadFromReader(strings.NewReader(tt.data))
			testutil.AssertErrorIs(t, err, tt.want)
			testutil.AssertContains(t, err.Error(), "line 1")
		})
	}

	err := NewClassifier().LoadFromReader(strings.NewReader("X00 Broken e2e4\n"))
	testutil.AssertContains(t, err.Error(), "4 tab separated fields")

	err = NewClassifier().LoadFromReader(strings.NewReader("X00\tEmpty\t\t\n"))
	testutil.AssertError(t, err)
}

func TestLoadFromFile_Missing(t *testing.T) {
	err := NewClassifier().LoadFromFile("/nonexistent/eco.tsv")
	testutil.AssertContains(t, err.Error(), "cannot open ECO file")
}

func TestLoad_SkipsDuplicates(t *testing.T) {
	c := NewClassifier()
	data := "B20\tSicilian\t\te2e4 c7c5\nB20\tSicilian again\t\te2e4 c7c5\n"
	testutil.AssertNoError(t, c.LoadFromReader(strings.NewReader(data)))
	testutil.AssertEqual(t, c.EntriesLoaded(), 1)
}
