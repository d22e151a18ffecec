// Package eco names repertoire positions by their ECO (Encyclopaedia of
// Chess Openings) classification.
package eco

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lgbarn/repertoire-go/internal/hashing"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// HalfMoveLimit is the maximum distance in plies between a position and a
// table line reaching it by transposition.
const HalfMoveLimit = 6

//go:embed eco.tsv
var defaultTable string

// Entry is one classified opening line.
type Entry struct {
	Code      string `json:"eco"`     // e.g. "B90"
	Opening   string `json:"opening"` // e.g. "Sicilian Defence"
	Variation string `json:"variation,omitempty"`

	requiredHash   uint64 // position reached by the line
	cumulativeHash uint64 // XOR of every position on the way
	halfMoves      int
}

// Name returns the opening and variation, e.g.
// "Sicilian Defence: Najdorf Variation".
func (e *Entry) Name() string {
	if e.Variation == "" {
		return e.Opening
	}
	return e.Opening + ": " + e.Variation
}

// Classifier maps positions to ECO entries.
type Classifier struct {
	table         map[uint64][]*Entry
	maxHalfMoves  int
	entriesLoaded int
}

// NewClassifier creates an empty classifier.
func NewClassifier() *Classifier {
	return &Classifier{
		table:        make(map[uint64][]*Entry),
		maxHalfMoves: HalfMoveLimit,
	}
}

// Default returns a classifier loaded with the built-in table of common
// openings.
func Default() *Classifier {
	c := NewClassifier()
	if err := c.LoadFromReader(strings.NewReader(defaultTable)); err != nil {
		panic(fmt.Sprintf("eco: built-in table: %v", err))
	}
	return c
}

// LoadFromFile loads entries from a table file.
func (c *Classifier) LoadFromFile(filename string) error {
	file, err := os.Open(filename) //nolint:gosec // G304: the table path comes from configuration
	if err != nil {
		return fmt.Errorf("cannot open ECO file: %w", err)
	}
	defer file.Close()

	return c.LoadFromReader(file)
}

// LoadFromReader loads tab separated rows of code, opening, variation and a
// line of coordinate moves. Blank rows and rows starting with '#' are
// skipped.
func (c *Classifier) LoadFromReader(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		row := strings.TrimSpace(scanner.Text())
		if row == "" || strings.HasPrefix(row, "#") {
			continue
		}
		if err := c.addRow(row); err != nil {
			return fmt.Errorf("ECO table line %d: %w", n, err)
		}
	}
	return scanner.Err()
}

func (c *Classifier) addRow(row string) error {
	fields := strings.Split(row, "\t")
	if len(fields) != 4 {
		return fmt.Errorf("want 4 tab separated fields, got %d", len(fields))
	}
	line, err := tree.ParseLine(fields[3])
	if err != nil {
		return err
	}
	if len(line) == 0 {
		return fmt.Errorf("no moves for %s", fields[0])
	}

	t := tree.New()
	id, err := t.Replay([][]tree.PathMove{line})
	if err != nil {
		return err
	}

	entry := &Entry{
		Code:      strings.TrimSpace(fields[0]),
		Opening:   strings.TrimSpace(fields[1]),
		Variation: strings.TrimSpace(fields[2]),
	}
	for _, mid := range t.AllMoves(id) {
		h := positionHash(t, mid)
		entry.cumulativeHash ^= h
		entry.requiredHash = h
		entry.halfMoves++
	}
	c.add(entry)
	return nil
}

func (c *Classifier) add(entry *Entry) {
	for _, existing := range c.table[entry.requiredHash] {
		if existing.halfMoves == entry.halfMoves && existing.cumulativeHash == entry.cumulativeHash {
			return
		}
	}
	c.table[entry.requiredHash] = append(c.table[entry.requiredHash], entry)
	c.entriesLoaded++

	if entry.halfMoves+HalfMoveLimit > c.maxHalfMoves {
		c.maxHalfMoves = entry.halfMoves + HalfMoveLimit
	}
}

// Classify returns the deepest entry matching a position on the line to
// id, or nil.
func (c *Classifier) Classify(t *tree.Tree, id tree.NodeID) *Entry {
	if c.entriesLoaded == 0 {
		return nil
	}

	var (
		best       *Entry
		cumulative uint64
	)
	for ply, mid := range t.AllMoves(id) {
		halfMoves := ply + 1
		if halfMoves > c.maxHalfMoves {
			break
		}
		h := positionHash(t, mid)
		cumulative ^= h
		if match := c.findMatch(h, cumulative, halfMoves); match != nil {
			best = match
		}
	}
	return best
}

// findMatch prefers an entry reached by the same moves and otherwise takes
// one reaching the position within HalfMoveLimit plies.
func (c *Classifier) findMatch(posHash, cumulativeHash uint64, halfMoves int) *Entry {
	var possible *Entry
	for _, entry := range c.table[posHash] {
		if entry.halfMoves == halfMoves && entry.cumulativeHash == cumulativeHash {
			return entry
		}
		if abs(halfMoves-entry.halfMoves) <= HalfMoveLimit {
			possible = entry
		}
	}
	return possible
}

// EntriesLoaded returns the number of entries loaded.
func (c *Classifier) EntriesLoaded() int {
	return c.entriesLoaded
}

func positionHash(t *tree.Tree, id tree.NodeID) uint64 {
	sig, _ := hashing.SignatureOf(t, id)
	return sig.Hash
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
