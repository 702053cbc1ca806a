package engine

import "fintrack/internal/core"

// ApplyBudget charges an expense to the first budget whose category matches
// the canonical category of tx. Income and unmatched categories are ignored.
// It returns the index of the updated budget, or -1.
func ApplyBudget(budgets []core.BudgetItem, tx core.Transaction, cm CategoryMap) int {
	if !tx.Amount.IsNegative() {
		return -1
	}
	category := cm.Resolve(tx.Category)
	for i := range budgets {
		if budgets[i].Category != category {
			continue
		}
		b := &budgets[i]
		b.Spent = b.Spent.Add(tx.Amount.Abs())
		b.Percent = core.Percent(b.Spent, b.Budget)
		return i
	}
	return -1
}
