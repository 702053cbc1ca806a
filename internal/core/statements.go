package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// StatementDateLayout is the calendar date format used by statements.
const StatementDateLayout = "2006-01-02"

const (
	ItemAsset     BalanceItemType = "asset"
	ItemLiability BalanceItemType = "liability"

	ItemRevenue IncomeItemType = "revenue"
	ItemExpense IncomeItemType = "expense"

	CashFlowOperating CashFlowCategory = "operating"
	CashFlowInvesting CashFlowCategory = "investing"
	CashFlowFinancing CashFlowCategory = "financing"
)

var (
	ErrItemNotFound    = errors.New("statement item not found")
	ErrDuplicateItem   = errors.New("statement item id already exists")
	ErrInvalidItem     = errors.New("invalid statement item")
	ErrInvalidPeriod   = errors.New("invalid statement period")
	ErrUnknownItemType = errors.New("unknown statement item type")
)

type (
	BalanceItemType  string
	IncomeItemType   string
	CashFlowCategory string

	BalanceItem struct {
		ID     string          `json:"id"`
		Name   string          `json:"name"`
		Amount decimal.Decimal `json:"amount"`
		Type   BalanceItemType `json:"type"`
	}

	// BalanceSheet lists what is owned and owed as of Date.
	BalanceSheet struct {
		Assets      []BalanceItem `json:"assets"`
		Liabilities []BalanceItem `json:"liabilities"`
		Date        string        `json:"date"`
	}

	IncomeItem struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Amount   decimal.Decimal `json:"amount"`
		Category string          `json:"category"`
	}

	// IncomeStatement covers StartDate through EndDate inclusive.
	IncomeStatement struct {
		Revenues  []IncomeItem `json:"revenues"`
		Expenses  []IncomeItem `json:"expenses"`
		StartDate string       `json:"startDate"`
		EndDate   string       `json:"endDate"`
	}

	// CashFlowItem amounts are signed: inflows positive, outflows negative.
	CashFlowItem struct {
		ID       string           `json:"id"`
		Name     string           `json:"name"`
		Amount   decimal.Decimal  `json:"amount"`
		Category CashFlowCategory `json:"category"`
	}

	// CashFlowStatement keeps EndingBalance equal to StartingBalance plus the
	// sum of all item amounts.
	CashFlowStatement struct {
		Items           []CashFlowItem  `json:"items"`
		StartDate       string          `json:"startDate"`
		EndDate         string          `json:"endDate"`
		StartingBalance decimal.Decimal `json:"startingBalance"`
		EndingBalance   decimal.Decimal `json:"endingBalance"`
	}

	Statements struct {
		BalanceSheet    BalanceSheet      `json:"balanceSheet"`
		IncomeStatement IncomeStatement   `json:"incomeStatement"`
		CashFlow        CashFlowStatement `json:"cashFlow"`
	}
)

func (t BalanceItemType) Valid() bool { return t == ItemAsset || t == ItemLiability }

func (t IncomeItemType) Valid() bool { return t == ItemRevenue || t == ItemExpense }

func (c CashFlowCategory) Valid() bool {
	switch c {
	case CashFlowOperating, CashFlowInvesting, CashFlowFinancing:
		return true
	}
	return false
}

// IsZero reports whether no statement carries any data, as in a document
// written before statements existed.
func (s *Statements) IsZero() bool {
	return len(s.BalanceSheet.Assets) == 0 && len(s.BalanceSheet.Liabilities) == 0 &&
		len(s.IncomeStatement.Revenues) == 0 && len(s.IncomeStatement.Expenses) == 0 &&
		len(s.CashFlow.Items) == 0 && s.CashFlow.StartingBalance.IsZero()
}

func (s Statements) Clone() Statements {
	out := s
	out.BalanceSheet.Assets = append([]BalanceItem(nil), s.BalanceSheet.Assets...)
	out.BalanceSheet.Liabilities = append([]BalanceItem(nil), s.BalanceSheet.Liabilities...)
	out.IncomeStatement.Revenues = append([]IncomeItem(nil), s.IncomeStatement.Revenues...)
	out.IncomeStatement.Expenses = append([]IncomeItem(nil), s.IncomeStatement.Expenses...)
	out.CashFlow.Items = append([]CashFlowItem(nil), s.CashFlow.Items...)
	return out
}

// MonthPeriod returns the first and last calendar day of the month
// containing t, formatted with StatementDateLayout.
func MonthPeriod(t time.Time) (start, end string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format(StatementDateLayout), last.Format(StatementDateLayout)
}

// DefaultStatements returns the sample statements, dated as of now.
func DefaultStatements(now time.Time) Statements {
	asset := func(id, name, amount string) BalanceItem {
		return BalanceItem{ID: id, Name: name, Amount: d(amount), Type: ItemAsset}
	}
	liability := func(id, name, amount string) BalanceItem {
		return BalanceItem{ID: id, Name: name, Amount: d(amount), Type: ItemLiability}
	}
	income := func(id, name, amount, category string) IncomeItem {
		return IncomeItem{ID: id, Name: name, Amount: d(amount), Category: category}
	}
	flow := func(id, name, amount string, c CashFlowCategory) CashFlowItem {
		return CashFlowItem{ID: id, Name: name, Amount: d(amount), Category: c}
	}
	start, end := MonthPeriod(now)

	return Statements{
		BalanceSheet: BalanceSheet{
			Assets: []BalanceItem{
				asset("1", "Cash", "15000"),
				asset("2", "Checking Account", "5800"),
				asset("3", "Savings Account", "12000"),
				asset("4", "Investments", "28500"),
				asset("5", "Vehicle", "18000"),
			},
			Liabilities: []BalanceItem{
				liability("6", "Credit Card", "2500"),
				liability("7", "Student Loan", "18000"),
				liability("8", "Car Loan", "12000"),
			},
			Date: now.Format(StatementDateLayout),
		},
		IncomeStatement: IncomeStatement{
			Revenues: []IncomeItem{
				income("1", "Primary Job Salary", "4500", "Salary"),
				income("2", "Freelance Work", "1200", "Freelance"),
				income("3", "Dividend Income", "350", "Investments"),
				income("4", "Interest", "80", "Investments"),
			},
			Expenses: []IncomeItem{
				income("5", "Rent", "1800", "Housing"),
				income("6", "Groceries", "650", "Food"),
				income("7", "Dining Out", "350", "Food"),
				income("8", "Gas", "180", "Transportation"),
				income("9", "Car Insurance", "120", "Insurance"),
				income("10", "Health Insurance", "250", "Insurance"),
				income("11", "Internet", "80", "Utilities"),
				income("12", "Cell Phone", "90", "Utilities"),
				income("13", "Gym Membership", "50", "Entertainment"),
				income("14", "Streaming Services", "35", "Entertainment"),
			},
			StartDate: start,
			EndDate:   end,
		},
		CashFlow: CashFlowStatement{
			Items: []CashFlowItem{
				flow("1", "Salary Received", "4500", CashFlowOperating),
				flow("2", "Freelance Income", "1200", CashFlowOperating),
				flow("3", "Rent Paid", "-1800", CashFlowOperating),
				flow("4", "Utilities Paid", "-320", CashFlowOperating),
				flow("5", "Groceries & Food", "-1000", CashFlowOperating),
				flow("6", "Transportation Costs", "-300", CashFlowOperating),
				flow("7", "Purchase of Laptop", "-1200", CashFlowInvesting),
				flow("8", "Investment in Stocks", "-2000", CashFlowInvesting),
				flow("9", "Student Loan Payment", "-400", CashFlowFinancing),
				flow("10", "Credit Card Payment", "-500", CashFlowFinancing),
			},
			StartDate:       start,
			EndDate:         end,
			StartingBalance: d("8000"),
			EndingBalance:   d("6180"),
		},
	}
}
