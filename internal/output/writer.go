package output

import (
	"fmt"
	"io"

	"github.com/lgbarn/repertoire-go/internal/config"
	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// TreeWriter is the interface for writing trees to output.
// Different implementations handle different output formats.
type TreeWriter interface {
	// WriteTree writes the whole tree.
	WriteTree(t *tree.Tree) error

	// WriteLine writes the moves leading to id.
	WriteLine(t *tree.Tree, id tree.NodeID) error
}

// NewTreeWriter returns the writer selected by cfg.
func NewTreeWriter(w io.Writer, cfg *config.OutputConfig) TreeWriter {
	if cfg.JSONFormat {
		return NewJSONWriter(w)
	}
	return NewMovetextWriter(w, cfg)
}

// MovetextWriter writes numbered SAN movetext.
type MovetextWriter struct {
	w   io.Writer
	cfg *config.OutputConfig
}

// NewMovetextWriter creates a new movetext writer.
func NewMovetextWriter(w io.Writer, cfg *config.OutputConfig) *MovetextWriter {
	return &MovetextWriter{w: w, cfg: cfg}
}

// WriteTree writes the tree with its variations.
func (mw *MovetextWriter) WriteTree(t *tree.Tree) error {
	return OutputTree(t, mw.cfg, mw.w)
}

// WriteLine writes the moves leading to id.
func (mw *MovetextWriter) WriteLine(t *tree.Tree, id tree.NodeID) error {
	return OutputLine(t, id, mw.cfg, mw.w)
}

// JSONWriter writes trees and lines as JSON.
type JSONWriter struct {
	w io.Writer
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

// WriteTree writes the tree, with the position after every move.
func (jw *JSONWriter) WriteTree(t *tree.Tree) error {
	return OutputTreeJSON(t, true, jw.w)
}

// WriteLine writes the move records leading to id.
func (jw *JSONWriter) WriteLine(t *tree.Tree, id tree.NodeID) error {
	return OutputRecordsJSON(t, id, jw.w)
}

func errNoMove(id tree.NodeID) error {
	return errors.Wrap(errors.ErrUnknownNode, fmt.Sprintf("no move at node %d", id))
}
