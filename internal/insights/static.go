package insights

import (
	"context"
	"fmt"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// StaticGenerator derives entries from the summary with fixed rules. It
// needs no network access and never fails.
type StaticGenerator struct{}

func (StaticGenerator) Generate(_ context.Context, s core.Summary) ([]core.Insight, error) {
	return []core.Insight{
		spendingInsight(s),
		savingInsight(s),
		upcomingInsight(s),
	}, nil
}

func spendingInsight(s core.Summary) core.Insight {
	var top *core.BudgetItem
	for i := range s.Budgets {
		if top == nil || s.Budgets[i].Percent > top.Percent {
			top = &s.Budgets[i]
		}
	}
	if top != nil && top.Percent >= 80 {
		return core.Insight{
			Type:  core.InsightSpending,
			Title: "Spending Pattern",
			Message: fmt.Sprintf("%s is at %d%% of its %s budget with %s spent.",
				top.Category, top.Percent, core.FormatMoney(top.Budget), core.FormatMoney(top.Spent)),
		}
	}

	var largest *core.Transaction
	for i := range s.RecentTransactions {
		tx := &s.RecentTransactions[i]
		if tx.Amount.IsNegative() && (largest == nil || tx.Amount.LessThan(largest.Amount)) {
			largest = tx
		}
	}
	if largest != nil {
		return core.Insight{
			Type:    core.InsightSpending,
			Title:   "Spending Pattern",
			Message: fmt.Sprintf("Your largest recent expense was %s at %s (%s).", core.FormatMoney(largest.Amount.Abs()), largest.Payee, largest.Category),
		}
	}
	return Fallback(core.InsightSpending)
}

func savingInsight(s core.Summary) core.Insight {
	p := s.Profile
	if p.MonthlySavings.IsNegative() {
		return core.Insight{
			Type:    core.InsightSaving,
			Title:   "Saving Opportunity",
			Message: fmt.Sprintf("Expenses exceed income by %s this month. Trimming the largest budget would close the gap.", core.FormatMoney(p.MonthlySavings.Abs())),
		}
	}
	if p.MonthlyIncome.IsPositive() {
		rate := core.Percent(p.MonthlySavings, p.MonthlyIncome)
		return core.Insight{
			Type:    core.InsightSaving,
			Title:   "Saving Opportunity",
			Message: fmt.Sprintf("You are saving %d%% of your income (%s this month).", rate, core.FormatMoney(p.MonthlySavings)),
		}
	}
	return Fallback(core.InsightSaving)
}

func upcomingInsight(s core.Summary) core.Insight {
	var best *core.Goal
	for i := range s.Goals {
		g := &s.Goals[i]
		if g.Percent >= 100 {
			continue
		}
		if best == nil || g.Percent > best.Percent {
			best = g
		}
	}
	if best == nil {
		return Fallback(core.InsightUpcoming)
	}
	remaining := decimal.Max(best.Target.Sub(best.Saved), decimal.Zero)
	return core.Insight{
		Type:    core.InsightUpcoming,
		Title:   "Financial Tip",
		Message: fmt.Sprintf("%s is %d%% funded. %s more reaches the target.", best.Name, best.Percent, core.FormatMoney(remaining)),
	}
}
