// Package output writes repertoire trees as numbered movetext or JSON.
package output

import (
	"fmt"
	"io"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/config"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// OutputWriter handles formatted output with line length control.
type OutputWriter struct {
	w             io.Writer
	lineLength    int
	maxLineLength int
	needsSpace    bool
}

// NewOutputWriter creates a new output writer.
func NewOutputWriter(w io.Writer, maxLineLength int) *OutputWriter {
	if maxLineLength <= 0 {
		maxLineLength = 80
	}
	return &OutputWriter{
		w:             w,
		maxLineLength: maxLineLength,
	}
}

// Write writes a string, adding a space separator if needed.
func (o *OutputWriter) Write(s string) {
	if o.needsSpace && len(s) > 0 {
		if o.lineLength+1+len(s) > o.maxLineLength {
			fmt.Fprintln(o.w)
			o.lineLength = 0
			o.needsSpace = false
		} else {
			fmt.Fprint(o.w, " ")
			o.lineLength++
		}
	}

	fmt.Fprint(o.w, s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// WriteNoSpace writes without adding a leading space.
func (o *OutputWriter) WriteNoSpace(s string) {
	fmt.Fprint(o.w, s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// NewLine starts a new line.
func (o *OutputWriter) NewLine() {
	fmt.Fprintln(o.w)
	o.lineLength = 0
	o.needsSpace = false
}

// OutputLine writes the moves from the root to id as numbered movetext,
// e.g. "1. e4 e5 2. Nf3".
func OutputLine(t *tree.Tree, id tree.NodeID, cfg *config.OutputConfig, w io.Writer) error {
	ow := NewOutputWriter(w, int(cfg.MaxLineLength))
	for i, mid := range t.AllMoves(id) {
		if err := outputMove(t, mid, cfg, ow, i == 0, ""); err != nil {
			return err
		}
	}
	ow.NewLine()
	return nil
}

// OutputTree writes the whole tree as movetext. The first child of every
// node is the main line; further children follow it as parenthesised
// variations when cfg.KeepVariations is set.
func OutputTree(t *tree.Tree, cfg *config.OutputConfig, w io.Writer) error {
	ow := NewOutputWriter(w, int(cfg.MaxLineLength))
	if err := outputMoves(t, t.Root(), cfg, ow, true); err != nil {
		return err
	}
	ow.NewLine()
	return nil
}

// outputMoves writes the main line below id with its variations.
func outputMoves(t *tree.Tree, id tree.NodeID, cfg *config.OutputConfig, ow *OutputWriter, needNumber bool) error {
	for {
		children := t.Children(id)
		if len(children) == 0 {
			return nil
		}
		main := children[0]
		if err := outputMove(t, main, cfg, ow, needNumber, ""); err != nil {
			return err
		}
		needNumber = false

		if cfg.KeepVariations && len(children) > 1 {
			for _, alt := range children[1:] {
				if err := outputVariation(t, alt, cfg, ow); err != nil {
					return err
				}
			}
			// The main line resumes after a variation and needs its number again.
			needNumber = true
		}
		id = main
	}
}

// outputVariation writes the line starting with the move at id in
// parentheses.
func outputVariation(t *tree.Tree, id tree.NodeID, cfg *config.OutputConfig, ow *OutputWriter) error {
	if err := outputMove(t, id, cfg, ow, true, "("); err != nil {
		return err
	}
	if err := outputMoves(t, id, cfg, ow, false); err != nil {
		return err
	}
	ow.WriteNoSpace(")")
	return nil
}

// outputMove writes one move, preceded by its number when White moves or
// when forceNumber is set. prefix is glued to the first token.
func outputMove(t *tree.Tree, id tree.NodeID, cfg *config.OutputConfig, ow *OutputWriter, forceNumber bool, prefix string) error {
	n, ok := t.Node(id)
	if !ok || n.IsRoot() {
		return errNoMove(id)
	}
	san, err := t.Notation(id)
	if err != nil {
		return err
	}

	tokens := []string{san}
	if cfg.KeepMoveNumbers {
		switch {
		case n.Side == chess.White:
			tokens = []string{fmt.Sprintf("%d.", moveNumber(t, n)), san}
		case forceNumber:
			tokens = []string{fmt.Sprintf("%d...", moveNumber(t, n)), san}
		}
	}
	tokens[0] = prefix + tokens[0]
	for _, tok := range tokens {
		ow.Write(tok)
	}
	return nil
}

// moveNumber returns the printed move number of n. A tree whose first move
// is Black's starts that move at ply 0, so its numbers shift by one.
func moveNumber(t *tree.Tree, n *tree.Node) int {
	if t.SideToMove(t.Root()) == chess.Black {
		return n.Ply + 1
	}
	return n.Ply
}
