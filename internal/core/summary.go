package core

// Summary is the view of a snapshot handed to the advisory generator.
type Summary struct {
	Profile            Profile
	RecentTransactions []Transaction // newest first
	Budgets            []BudgetItem
	Goals              []Goal
}

// Summarize copies the parts of s an advisor needs, keeping at most recent
// ledger entries.
func (s *Snapshot) Summarize(recent int) Summary {
	txs := s.Transactions
	if recent >= 0 && len(txs) > recent {
		txs = txs[:recent]
	}
	return Summary{
		Profile:            s.Profile,
		RecentTransactions: append([]Transaction(nil), txs...),
		Budgets:            append([]BudgetItem(nil), s.Budgets...),
		Goals:              append([]Goal(nil), s.Goals...),
	}
}
