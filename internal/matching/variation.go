package matching

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// VariationMatcher matches lines against move sequences or position sequences.
type VariationMatcher struct {
	// Move sequences to match (SAN notation)
	moveSequences [][]string
	// Placement sequences to match (FEN placement field)
	positionSequences [][]string
}

// NewVariationMatcher creates a new variation matcher.
func NewVariationMatcher() *VariationMatcher {
	return &VariationMatcher{}
}

// LoadFromFile loads variations from a file.
// Each row is a move sequence like "1. e4 e5 2. Nf3 Nc6", or a position
// sequence of FEN placements prefixed with "fen:" and separated by ";".
// Blank rows and rows starting with "#" are skipped.
func (vm *VariationMatcher) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open variations file: %w", err)
	}
	defer file.Close()

	return vm.LoadFromReader(file)
}

// LoadFromReader loads variations from a reader in the LoadFromFile format.
func (vm *VariationMatcher) LoadFromReader(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "fen:"); ok {
			if err := vm.AddPositionSequence(strings.Split(rest, ";")); err != nil {
				return fmt.Errorf("variations line %d: %w", lineNo, err)
			}
			continue
		}
		vm.AddMoveSequence(ParseMoveSequence(line))
	}
	return scanner.Err()
}

// ParseMoveSequence splits a move sequence such as "1. e4 e5 2. Nf3" into
// normalized SAN moves, dropping move numbers.
func ParseMoveSequence(line string) []string {
	var moves []string
	for _, field := range strings.Fields(line) {
		// Skip move numbers like "1." and "1...", attached or not
		if i := strings.LastIndexByte(field, '.'); i >= 0 && isMoveNumber(field[:i+1]) {
			field = field[i+1:]
		}
		if field == "" {
			continue
		}
		moves = append(moves, normalizeMove(field))
	}
	return moves
}

func isMoveNumber(s string) bool {
	return strings.Trim(s, "0123456789.") == ""
}

// normalizeMove strips check and annotation marks and writes castling
// with zeros, so "O-O+" and "0-0" compare equal.
func normalizeMove(move string) string {
	move = strings.TrimRight(move, "+#!?")
	if strings.HasPrefix(move, "O-O") {
		move = strings.ReplaceAll(move, "O", "0")
	}
	return move
}

// AddMoveSequence adds a move sequence to match.
func (vm *VariationMatcher) AddMoveSequence(moves []string) {
	if len(moves) == 0 {
		return
	}
	seq := make([]string, len(moves))
	for i, m := range moves {
		seq[i] = normalizeMove(m)
	}
	vm.moveSequences = append(vm.moveSequences, seq)
}

// AddPositionSequence adds a sequence of FEN placements that must occur in
// order along a line. Full FEN strings are accepted; only their placement
// field is compared.
func (vm *VariationMatcher) AddPositionSequence(placements []string) error {
	var seq []string
	for _, p := range placements {
		fields := strings.Fields(p)
		if len(fields) == 0 {
			continue
		}
		board, err := chess.ParsePlacement(fields[0])
		if err != nil {
			return err
		}
		seq = append(seq, board.Placement())
	}
	if len(seq) > 0 {
		vm.positionSequences = append(vm.positionSequences, seq)
	}
	return nil
}

// Match reports whether the line ending at id contains any of the move
// sequences or position sequences. A matcher without sequences matches
// every line.
func (vm *VariationMatcher) Match(t *tree.Tree, id tree.NodeID) bool {
	if !vm.HasCriteria() {
		return true
	}
	if !t.Has(id) {
		return false
	}

	ids := t.AllMoves(id)
	if len(vm.moveSequences) > 0 {
		moves := make([]string, 0, len(ids))
		for _, mid := range ids {
			san, err := t.Notation(mid)
			if err != nil {
				return false
			}
			moves = append(moves, normalizeMove(san))
		}
		for _, seq := range vm.moveSequences {
			if containsSequence(moves, seq) {
				return true
			}
		}
	}

	if len(vm.positionSequences) > 0 {
		positions := make([]string, 0, len(ids)+1)
		for _, pid := range append([]tree.NodeID{t.Root()}, ids...) {
			n, _ := t.Node(pid)
			positions = append(positions, n.Board.Placement())
		}
		for _, seq := range vm.positionSequences {
			if containsInOrder(positions, seq) {
				return true
			}
		}
	}
	return false
}

// containsSequence reports whether seq occurs contiguously in moves.
func containsSequence(moves, seq []string) bool {
	for start := 0; start+len(seq) <= len(moves); start++ {
		match := true
		for i, m := range seq {
			// "*" stands for any move
			if m != "*" && moves[start+i] != m {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// containsInOrder reports whether every element of seq occurs in
// positions, in order but not necessarily adjacent.
func containsInOrder(positions, seq []string) bool {
	i := 0
	for _, p := range positions {
		if i < len(seq) && p == seq[i] {
			i++
		}
	}
	return i == len(seq)
}

// HasCriteria returns true if any sequences are configured.
func (vm *VariationMatcher) HasCriteria() bool {
	return len(vm.moveSequences) > 0 || len(vm.positionSequences) > 0
}

// Name implements LineMatcher.
func (vm *VariationMatcher) Name() string {
	return fmt.Sprintf("VariationMatcher(%d moves, %d positions)",
		len(vm.moveSequences), len(vm.positionSequences))
}
