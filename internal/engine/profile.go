package engine

import (
	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ApplyProfile folds tx into the account summary.
//
// The balance always moves. Monthly income, expenses and savings only move
// when the transaction's month label matches currentMonth. MonthlyChange
// accumulates each transaction's percentage effect on the prior balance,
// which approximates the month-over-month change without tracking the
// balance at the start of the month. A zero prior balance leaves it alone.
func ApplyProfile(p *core.Profile, tx core.Transaction, currentMonth core.MonthLabel) {
	amount := tx.Amount
	p.Balance = p.Balance.Add(amount)

	if core.MonthOfLabel(tx.Date) == currentMonth {
		if amount.IsPositive() {
			p.MonthlyIncome = p.MonthlyIncome.Add(amount)
			p.IncomeChange = p.IncomeChange.Add(amount)
		} else {
			spent := amount.Abs()
			p.MonthlyExpenses = p.MonthlyExpenses.Add(spent)
			p.ExpensesChange = p.ExpensesChange.Sub(spent)
		}
		p.MonthlySavings = p.MonthlyIncome.Sub(p.MonthlyExpenses)
	}

	prior := p.Balance.Sub(amount)
	if !prior.IsZero() {
		p.MonthlyChange = p.MonthlyChange.Add(amount.Div(prior).Mul(hundred))
	}
}
