// Package store persists repertoires as a shared graph of content-addressed
// moves. Each repertoire points at the leaves of its lines; the lines are
// recovered by walking parent edges from those leaves back to the root.
package store

import (
	"context"

	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// Repertoire is a named collection of lines from one starting position.
type Repertoire struct {
	ID   string `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
	// FEN is the starting position; empty means the standard start.
	FEN string `json:"fen,omitempty" bson:"fen,omitempty"`
}

// Path is one stored root-to-leaf line.
type Path []tree.PathMove

// Store is the persistence collaborator of the trainer.
type Store interface {
	// CreateRepertoire stores a new repertoire under a fresh id.
	CreateRepertoire(ctx context.Context, name, fen string) (Repertoire, error)
	// Repertoires lists every repertoire.
	Repertoires(ctx context.Context) ([]Repertoire, error)
	// Repertoire returns one repertoire or ErrRepertoireNotFound.
	Repertoire(ctx context.Context, id string) (Repertoire, error)
	// Paths returns every line from the root to one of the repertoire's
	// leaves.
	Paths(ctx context.Context, repertoireID string) ([]Path, error)
	// SaveMove upserts rec, links it under parentID and moves the
	// repertoire's leaf pointer from the parent to rec.
	SaveMove(ctx context.Context, repertoireID, parentID string, rec tree.MoveRecord) error
	// Close releases the backend.
	Close() error
}

// graph is the read side both backends expose to collectPaths.
type graph interface {
	// move returns the record stored under id and the ids of its parents.
	// found is false for ids that are not stored moves, such as the root.
	move(ctx context.Context, id string) (rec tree.MoveRecord, parents []string, found bool, err error)
}

// collectPaths walks parent edges up from each leaf and returns every
// distinct root-to-leaf line. A move reached through more than one parent
// contributes one line per parent.
func collectPaths(ctx context.Context, g graph, leaves []string) ([]Path, error) {
	type entry struct {
		rec     tree.MoveRecord
		parents []string
		found   bool
	}
	cache := make(map[string]entry)
	load := func(id string) (entry, error) {
		if e, ok := cache[id]; ok {
			return e, nil
		}
		rec, parents, found, err := g.move(ctx, id)
		if err != nil {
			return entry{}, err
		}
		e := entry{rec: rec, parents: parents, found: found}
		cache[id] = e
		return e, nil
	}

	var walk func(id string) ([]Path, error)
	walk = func(id string) ([]Path, error) {
		e, err := load(id)
		if err != nil {
			return nil, err
		}
		if !e.found {
			return []Path{nil}, nil
		}
		m, err := e.rec.PathMove()
		if err != nil {
			return nil, err
		}
		var out []Path
		for _, parent := range e.parents {
			prefixes, err := walk(parent)
			if err != nil {
				return nil, err
			}
			for _, prefix := range prefixes {
				line := make(Path, len(prefix), len(prefix)+1)
				copy(line, prefix)
				out = append(out, append(line, m))
			}
		}
		return out, nil
	}

	var paths []Path
	for _, leaf := range leaves {
		lines, err := walk(leaf)
		if err != nil {
			return nil, errors.Wrapf(err, "leaf %.12s", leaf)
		}
		for _, line := range lines {
			if len(line) > 0 {
				paths = append(paths, line)
			}
		}
	}
	return paths, nil
}
