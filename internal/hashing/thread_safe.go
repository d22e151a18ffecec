package hashing

import (
	"sync"

	"github.com/lgbarn/repertoire-go/internal/tree"
)

// ThreadSafeIndex wraps Index with mutex protection for concurrent access.
type ThreadSafeIndex struct {
	index *Index
	mu    sync.RWMutex
}

// NewThreadSafeIndex creates an empty thread-safe index.
func NewThreadSafeIndex() *ThreadSafeIndex {
	return &ThreadSafeIndex{index: NewIndex()}
}

// Add atomically records sig and reports whether its position was known.
func (x *ThreadSafeIndex) Add(sig Signature) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.index.Add(sig)
}

// Transpositions returns the other nodes sharing sig's position.
func (x *ThreadSafeIndex) Transpositions(sig Signature) []tree.NodeID {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.Transpositions(sig)
}

// TranspositionCount returns how many added nodes repeated a known position.
func (x *ThreadSafeIndex) TranspositionCount() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.TranspositionCount()
}

// UniqueCount returns the number of distinct positions indexed.
func (x *ThreadSafeIndex) UniqueCount() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.UniqueCount()
}

// LoadFromIndex copies entries from an existing index. Call before
// concurrent use.
func (x *ThreadSafeIndex) LoadFromIndex(other *Index) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for hash, sigs := range other.hashTable {
		x.index.hashTable[hash] = append(x.index.hashTable[hash], sigs...)
	}
	x.index.transpositions += other.transpositions
}
