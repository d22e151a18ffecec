// Package hashing detects transpositions: tree nodes that reach the same
// position by different move orders.
package hashing

import (
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// Signature identifies the position at a tree node.
type Signature struct {
	// Hash is the Zobrist hash of the board and side to move
	Hash uint64
	// WeakHash confirms a Zobrist match
	WeakHash uint64
	// Node is the node the position was reached at
	Node tree.NodeID
}

// SignatureOf returns the signature of the position at id.
func SignatureOf(t *tree.Tree, id tree.NodeID) (Signature, bool) {
	n, ok := t.Node(id)
	if !ok {
		return Signature{}, false
	}
	return Signature{
		Hash:     GenerateZobristHash(n.Board, t.SideToMove(id)),
		WeakHash: WeakHash(n.Board),
		Node:     id,
	}, true
}

// Index groups tree nodes by position.
type Index struct {
	hashTable      map[uint64][]Signature
	transpositions int
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{hashTable: make(map[uint64][]Signature)}
}

// Add records sig and reports whether its position was already indexed
// under another node. Adding the same node twice is a no-op.
func (x *Index) Add(sig Signature) bool {
	seen := false
	for _, existing := range x.hashTable[sig.Hash] {
		if existing.WeakHash != sig.WeakHash {
			continue
		}
		if existing.Node == sig.Node {
			return false
		}
		seen = true
	}
	x.hashTable[sig.Hash] = append(x.hashTable[sig.Hash], sig)
	if seen {
		x.transpositions++
	}
	return seen
}

// AddTree indexes every node of t and returns the number of nodes that
// transpose into a position indexed earlier.
func (x *Index) AddTree(t *tree.Tree) int {
	found := 0
	for id := tree.RootID; int(id) < t.Len(); id++ {
		sig, _ := SignatureOf(t, id)
		if x.Add(sig) {
			found++
		}
	}
	return found
}

// Transpositions returns the other nodes indexed with the same position as
// sig, in the order they were added.
func (x *Index) Transpositions(sig Signature) []tree.NodeID {
	var ids []tree.NodeID
	for _, existing := range x.hashTable[sig.Hash] {
		if existing.WeakHash == sig.WeakHash && existing.Node != sig.Node {
			ids = append(ids, existing.Node)
		}
	}
	return ids
}

// TranspositionCount returns how many added nodes repeated a known position.
func (x *Index) TranspositionCount() int {
	return x.transpositions
}

// UniqueCount returns the number of distinct positions indexed.
func (x *Index) UniqueCount() int {
	count := 0
	for _, sigs := range x.hashTable {
		count += distinct(sigs)
	}
	return count
}

// Reset clears the index.
func (x *Index) Reset() {
	x.hashTable = make(map[uint64][]Signature)
	x.transpositions = 0
}

func distinct(sigs []Signature) int {
	seen := make(map[uint64]bool, len(sigs))
	for _, s := range sigs {
		seen[s.WeakHash] = true
	}
	return len(seen)
}
