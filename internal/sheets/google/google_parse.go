package google

import (
	"fmt"
	"strconv"
	"strings"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// Ledger sheet columns: ID, Date, Payee, Category, Custom category, Amount.
const ledgerColumns = 6

func rowFor(tx core.Transaction) []any {
	return []any{
		tx.ID,
		tx.Date,
		tx.Payee,
		tx.Category,
		tx.CustomCategory,
		tx.Amount.StringFixed(2),
	}
}

func parseRow(row []any) (core.Transaction, error) {
	cells := toStrings(row)
	if len(cells) < ledgerColumns {
		cells = append(cells, make([]string, ledgerColumns-len(cells))...)
	}
	id, err := strconv.ParseInt(cells[0], 10, 64)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("row id %q: %w", cells[0], err)
	}
	amount, err := decimal.NewFromString(strings.NewReplacer("$", "", " ", "").Replace(cells[5]))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("row %d amount %q: %w", id, cells[5], err)
	}
	tx := core.Transaction{
		ID:             id,
		Date:           cells[1],
		Payee:          cells[2],
		Category:       cells[3],
		CustomCategory: cells[4],
		Amount:         amount,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("row %d: %w", id, err)
	}
	return tx, nil
}

func parseLedger(values [][]any) []core.Transaction {
	var out []core.Transaction
	for _, row := range values {
		tx, err := parseRow(row)
		if err != nil {
			continue
		}
		out = append(out, tx)
	}
	return out
}
