// Package matching selects repertoire lines by move sequence, position and
// material.
package matching

import (
	"fmt"
	"strings"

	"github.com/lgbarn/repertoire-go/internal/tree"
)

// LineMatcher decides whether a line belongs to a selection. A line is the
// sequence of moves from the root to a node.
type LineMatcher interface {
	Match(t *tree.Tree, id tree.NodeID) bool

	// Name describes the matcher in logs and listings.
	Name() string
}

// MatchMode says how a CompositeMatcher combines its parts.
type MatchMode int

const (
	// MatchAll accepts a line when every part does.
	MatchAll MatchMode = iota

	// MatchAny accepts a line when at least one part does.
	MatchAny
)

// CompositeMatcher combines LineMatchers under one MatchMode. With no parts
// MatchAll accepts every line and MatchAny none.
type CompositeMatcher struct {
	parts []LineMatcher
	mode  MatchMode
}

// NewCompositeMatcher combines parts under mode.
func NewCompositeMatcher(mode MatchMode, parts ...LineMatcher) *CompositeMatcher {
	return &CompositeMatcher{parts: parts, mode: mode}
}

// Match implements LineMatcher.
func (c *CompositeMatcher) Match(t *tree.Tree, id tree.NodeID) bool {
	// MatchAll stops at the first rejection, MatchAny at the first match.
	want := c.mode == MatchAny
	for _, m := range c.parts {
		if m.Match(t, id) == want {
			return want
		}
	}
	return !want
}

// Name implements LineMatcher.
func (c *CompositeMatcher) Name() string {
	if len(c.parts) == 0 {
		return "CompositeMatcher(empty)"
	}
	op := "AND"
	if c.mode == MatchAny {
		op = "OR"
	}
	var sb strings.Builder
	for i, m := range c.parts {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.Name())
	}
	return fmt.Sprintf("CompositeMatcher(%s: %s)", op, sb.String())
}

// Add appends a part.
func (c *CompositeMatcher) Add(m LineMatcher) {
	c.parts = append(c.parts, m)
}

// Matchers returns the parts.
func (c *CompositeMatcher) Matchers() []LineMatcher {
	return c.parts
}

// Mode returns how the parts are combined.
func (c *CompositeMatcher) Mode() MatchMode {
	return c.mode
}

// FindLines returns the leaves below the root whose line matches m, in the
// order they were added.
func FindLines(t *tree.Tree, m LineMatcher) []tree.NodeID {
	var found []tree.NodeID
	for _, leaf := range t.Leaves() {
		if leaf == t.Root() {
			continue
		}
		if m.Match(t, leaf) {
			found = append(found, leaf)
		}
	}
	return found
}
