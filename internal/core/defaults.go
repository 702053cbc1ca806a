package core

import "github.com/shopspring/decimal"

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func point(name, income, expenses string) ChartDataPoint {
	return ChartDataPoint{Name: name, Income: d(income), Expenses: d(expenses)}
}

// DefaultSnapshot returns the sample data a fresh installation starts from.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Profile: Profile{
			Balance:         d("16420.65"),
			MonthlyIncome:   d("4250.00"),
			MonthlyExpenses: d("2845.17"),
			MonthlySavings:  d("1404.83"),
			MonthlyChange:   d("2.4"),
			IncomeChange:    d("1250.00"),
			ExpensesChange:  d("-320.00"),
		},
		Transactions: []Transaction{
			{ID: 1, Date: "Apr 15", Payee: "Grocery Store", Category: "Food", Amount: d("-78.52")},
			{ID: 2, Date: "Apr 14", Payee: "Direct Deposit", Category: "Income", Amount: d("1250.00")},
			{ID: 3, Date: "Apr 13", Payee: "Coffee Shop", Category: "Dining", Amount: d("-4.75")},
			{ID: 4, Date: "Apr 12", Payee: "Gas Station", Category: "Transport", Amount: d("-45.80")},
			{ID: 5, Date: "Apr 10", Payee: "Utility Bill", Category: "Bills", Amount: d("-120.35")},
		},
		Budgets: []BudgetItem{
			{Category: "Food & Dining", Spent: d("450"), Budget: d("600"), Percent: 75},
			{Category: "Transportation", Spent: d("250"), Budget: d("300"), Percent: 83},
			{Category: "Entertainment", Spent: d("180"), Budget: d("200"), Percent: 90},
			{Category: "Shopping", Spent: d("120"), Budget: d("300"), Percent: 40},
		},
		Goals: []Goal{
			{Name: "Vacation", Saved: d("2500"), Target: d("5000"), Percent: 50},
			{Name: "New Car", Saved: d("7500"), Target: d("15000"), Percent: 50},
		},
		Categories: Categories{
			BudgetCategories: []CategoryRef{
				{ID: "food", Name: "Food & Dining"},
				{ID: "transport", Name: "Transportation"},
				{ID: "entertainment", Name: "Entertainment"},
				{ID: "shopping", Name: "Shopping"},
			},
			ExpenseCategories: []CategoryRef{
				{ID: "bills", Name: "Bills"},
				{ID: "housing", Name: "Housing"},
				{ID: "health", Name: "Healthcare"},
				{ID: "other_expense", Name: "Other"},
			},
			IncomeCategories: []CategoryRef{
				{ID: "paycheck", Name: "Paycheck"},
				{ID: "freelance", Name: "Freelance"},
				{ID: "investment", Name: "Investment"},
				{ID: "gift", Name: "Gift"},
				{ID: "refund", Name: "Refund"},
				{ID: "other_income", Name: "Other"},
			},
			CategoryMappings: map[string]string{
				"Food":          "Food & Dining",
				"Dining":        "Food & Dining",
				"Transport":     "Transportation",
				"Entertainment": "Entertainment",
				"Shopping":      "Shopping",
			},
		},
		ChartData: ChartData{
			ThisMonth: []ChartDataPoint{
				point("Apr 1 - Apr 7", "1250", "450"),
				point("Apr 8 - Apr 14", "850", "390"),
				point("Apr 15 - Apr 21", "0", "0"),
				point("Apr 22 - Apr 28", "0", "0"),
			},
			Last3Months: []ChartDataPoint{
				point("Feb", "3950", "2780"),
				point("Mar", "4100", "3200"),
				point("Apr", "2100", "840"),
			},
			ThisYear: []ChartDataPoint{
				point("Jan", "3850", "2650"),
				point("Feb", "3950", "2780"),
				point("Mar", "4100", "3200"),
				point("Apr", "2100", "840"),
			},
		},
		Insights: []Insight{
			{
				Type:    InsightSpending,
				Title:   "Spending Pattern",
				Message: "Your restaurant spending has increased by 15% compared to last month.",
			},
			{
				Type:    InsightSaving,
				Title:   "Saving Opportunity",
				Message: "You could save $85/month by reducing subscription services.",
			},
			{
				Type:    InsightUpcoming,
				Title:   "Upcoming Bills",
				Message: "Your internet bill ($65) is due in 3 days.",
			},
		},
	}
}
