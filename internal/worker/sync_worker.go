package worker

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/sheets"
)

// ErrNoMirror is returned when the worker is built without a ledger mirror.
var ErrNoMirror = errors.New("no ledger mirror configured")

// SyncWorker copies recorded transactions to an external ledger.
type SyncWorker struct {
	mirror sheets.LedgerMirror
	reader sheets.LedgerReader
	logger *log.Logger
}

// NewSyncWorker wires a worker. reader may be nil, in which case duplicate
// deliveries are appended again.
func NewSyncWorker(mirror sheets.LedgerMirror, reader sheets.LedgerReader, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &SyncWorker{
		mirror: mirror,
		reader: reader,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleTransactionRecorded processes a single transaction.recorded message.
func (w *SyncWorker) HandleTransactionRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	if msg == nil {
		return errors.New("nil message")
	}
	tx := msg.Transaction

	w.logger.InfoContext(ctx, "Processing transaction message",
		log.NewFields().WithTransaction(tx).ToSlice()...)

	if msg.MilestoneCrossed {
		w.logger.InfoContext(ctx, "Savings goal milestone crossed",
			log.FieldTxID, tx.ID,
			log.FieldPayee, tx.Payee,
			log.FieldMilestone, true)
	}

	if _, err := w.syncTransaction(ctx, tx); err != nil {
		return fmt.Errorf("sync transaction %d: %w", tx.ID, err)
	}
	return nil
}

// Backfill mirrors every ledger entry the external ledger does not have yet.
// Entries are appended oldest first. It is run at startup to recover from
// missed messages.
func (w *SyncWorker) Backfill(ctx context.Context, txs []core.Transaction) (synced int, err error) {
	if w.reader == nil {
		w.logger.WarnContext(ctx, "No ledger reader configured, skipping backfill")
		return 0, nil
	}

	errorCount := 0
	for i := len(txs) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return synced, err
		}
		appended, err := w.syncTransaction(ctx, txs[i])
		if err != nil {
			w.logger.ErrorContext(ctx, "Failed to sync transaction during backfill",
				log.FieldTxID, txs[i].ID, log.FieldError, err)
			errorCount++
			continue
		}
		if appended {
			synced++
		}
	}

	w.logger.InfoContext(ctx, "Backfill completed",
		"total", len(txs),
		"synced", synced,
		"errors", errorCount)

	if errorCount > 0 {
		return synced, fmt.Errorf("backfill: %d of %d transactions failed", errorCount, len(txs))
	}
	return synced, nil
}

// syncTransaction appends tx unless the reader reports it as present.
func (w *SyncWorker) syncTransaction(ctx context.Context, tx core.Transaction) (bool, error) {
	if w.mirror == nil {
		return false, ErrNoMirror
	}
	// The engine accepts entries without a parsable date or payee; sheet
	// rows need both, so such entries are acknowledged and left out.
	if err := tx.Validate(); err != nil {
		w.logger.WarnContext(ctx, "Skipping transaction the ledger cannot hold",
			log.FieldTxID, tx.ID, log.FieldError, err)
		return false, nil
	}
	if w.reader != nil {
		present, err := w.reader.HasTransaction(ctx, tx.ID)
		if err != nil {
			return false, fmt.Errorf("check ledger: %w", err)
		}
		if present {
			w.logger.DebugContext(ctx, "Transaction already mirrored", log.FieldTxID, tx.ID)
			return false, nil
		}
	}

	ref, err := w.mirror.AppendTransaction(ctx, tx)
	if err != nil {
		return false, fmt.Errorf("append to ledger: %w", err)
	}

	w.logger.InfoContext(ctx, "Successfully synced transaction",
		log.FieldTxID, tx.ID,
		log.FieldSheetsRef, ref,
		log.FieldPayee, tx.Payee,
		log.FieldAmountCents, core.Cents(tx.Amount))
	return true, nil
}
