package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

// Store is an in-process ledger mirror for local runs and tests.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

var (
	_ ports.LedgerMirror = (*Store)(nil)
	_ ports.LedgerReader = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// AppendTransaction stores tx and returns a synthetic row reference.
func (s *Store) AppendTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...), nil
}

func (s *Store) HasTransaction(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.items {
		if tx.ID == id {
			return true, nil
		}
	}
	return false, nil
}
