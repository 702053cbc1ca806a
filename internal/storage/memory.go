package storage

import (
	"context"
	"sync"

	"fintrack/internal/core"
)

// MemoryGateway keeps the encoded document in memory. Saved snapshots are
// serialised so later mutations by the caller are not visible to Load.
type MemoryGateway struct {
	mu  sync.RWMutex
	doc []byte
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{}
}

func (g *MemoryGateway) Load(_ context.Context) (*core.Snapshot, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.doc == nil {
		return nil, ErrNotFound
	}
	return decode(g.doc)
}

func (g *MemoryGateway) Save(_ context.Context, snap *core.Snapshot) error {
	b, err := encode(snap)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.doc = b
	g.mu.Unlock()
	return nil
}
