// Package storage persists the financial snapshot as a single JSON document.
//
// Every backend stores the whole aggregate in one write so a reader never
// observes half of a transaction's effects.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("snapshot not found")

// Gateway loads and saves the full snapshot.
type Gateway interface {
	Load(ctx context.Context) (*core.Snapshot, error)
	Save(ctx context.Context, snap *core.Snapshot) error
}

func encode(snap *core.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("encode snapshot: %w", core.ErrInvalidSnapshot)
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

func decode(b []byte) (*core.Snapshot, error) {
	var snap core.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
