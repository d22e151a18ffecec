// Package session keeps the node each repertoire is currently viewed at,
// outside the process so a restarted server resumes where the user left off.
package session

import (
	"context"
	"sync"
	"time"
)

// Views maps repertoire ids to the content hash of the viewed node.
type Views interface {
	// View returns the viewed node of a repertoire; ok is false when none
	// was stored or it expired.
	View(ctx context.Context, repertoireID string) (nodeID string, ok bool, err error)
	// SetView stores the viewed node of a repertoire.
	SetView(ctx context.Context, repertoireID, nodeID string) error
	// ClearView forgets the viewed node of a repertoire.
	ClearView(ctx context.Context, repertoireID string) error
}

// MemoryViews keeps views in process memory.
type MemoryViews struct {
	mu    sync.RWMutex
	views map[string]memoryView
	ttl   time.Duration
	now   func() time.Time
}

type memoryView struct {
	node    string
	expires time.Time // zero means never
}

// NewMemoryViews creates an empty view map. A ttl of 0 keeps views forever.
func NewMemoryViews(ttl time.Duration) *MemoryViews {
	return &MemoryViews{
		views: make(map[string]memoryView),
		ttl:   ttl,
		now:   time.Now,
	}
}

// View returns the viewed node of a repertoire.
func (m *MemoryViews) View(_ context.Context, repertoireID string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.views[repertoireID]
	if !ok || (!v.expires.IsZero() && !m.now().Before(v.expires)) {
		return "", false, nil
	}
	return v.node, true, nil
}

// SetView stores the viewed node of a repertoire.
func (m *MemoryViews) SetView(_ context.Context, repertoireID, nodeID string) error {
	v := memoryView{node: nodeID}
	if m.ttl > 0 {
		v.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.views[repertoireID] = v
	m.mu.Unlock()
	return nil
}

// ClearView forgets the viewed node of a repertoire.
func (m *MemoryViews) ClearView(_ context.Context, repertoireID string) error {
	m.mu.Lock()
	delete(m.views, repertoireID)
	m.mu.Unlock()
	return nil
}
