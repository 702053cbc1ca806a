package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerMirror copies recorded transactions to an external ledger.
	LedgerMirror interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// LedgerReader reads back what has been mirrored so far.
	LedgerReader interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		HasTransaction(ctx context.Context, id int64) (bool, error)
	}
)
