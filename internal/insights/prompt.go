package insights

import (
	"fmt"
	"strings"

	"fintrack/internal/core"
)

// SystemInstruction frames the generator as a personal finance advisor.
const SystemInstruction = "You are a creative financial advisor with expertise in personal finance. " +
	"Provide varied, insightful and personalized financial advice based on the data provided. " +
	"Always give different perspectives when asked repeatedly."

// BuildPrompt renders a summary as the user prompt for a language model.
func BuildPrompt(s core.Summary) string {
	var b strings.Builder

	b.WriteString("As a financial advisor, analyze the following financial data and provide three specific, personalized insights.\n\n")

	b.WriteString("Financial Overview:\n")
	fmt.Fprintf(&b, "- Current Balance: %s\n", core.FormatMoney(s.Profile.Balance))
	fmt.Fprintf(&b, "- Monthly Income: %s\n", core.FormatMoney(s.Profile.MonthlyIncome))
	fmt.Fprintf(&b, "- Monthly Expenses: %s\n", core.FormatMoney(s.Profile.MonthlyExpenses))
	fmt.Fprintf(&b, "- Monthly Savings: %s\n", core.FormatMoney(s.Profile.MonthlySavings))

	b.WriteString("\nRecent Transactions:\n")
	for _, tx := range s.RecentTransactions {
		fmt.Fprintf(&b, "%s: %s - %s - %s\n", tx.Date, tx.Payee, tx.Category, core.FormatMoney(tx.Amount))
	}

	b.WriteString("\nBudget Information:\n")
	for _, bi := range s.Budgets {
		fmt.Fprintf(&b, "%s: %s/%s (%d%%)\n", bi.Category, core.FormatMoney(bi.Spent), core.FormatMoney(bi.Budget), bi.Percent)
	}

	b.WriteString("\nSavings Goals:\n")
	for _, g := range s.Goals {
		fmt.Fprintf(&b, "%s: %s/%s (%d%%)\n", g.Name, core.FormatMoney(g.Saved), core.FormatMoney(g.Target), g.Percent)
	}

	b.WriteString(`
Provide these three insights:
1. Spending Pattern: a specific pattern, trend or anomaly in recent spending.
2. Saving Opportunity: one specific, non-obvious way to save based on this history.
3. Financial Tip: the tip most relevant to these goals and budgets.

Respond with a JSON array of exactly three objects with the fields "type", "title" and "message".
Use the types "spending", "saving" and "upcoming" in that order. Keep each message under 150 characters.
`)
	return b.String()
}
