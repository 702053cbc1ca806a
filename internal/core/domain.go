package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Snapshot documents carry amounts as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	InsightSpending InsightType = "spending"
	InsightSaving   InsightType = "saving"
	InsightUpcoming InsightType = "upcoming"
)

type (
	InsightType string

	// Transaction is one ledger entry. Positive amounts are income, negative
	// amounts are expenses.
	Transaction struct {
		ID             int64           `json:"id"`
		Date           string          `json:"date"` // display label, e.g. "Apr 15"
		Payee          string          `json:"payee"`
		Category       string          `json:"category"`
		Amount         decimal.Decimal `json:"amount"`
		CustomCategory string          `json:"customCategory,omitempty"`
	}

	Profile struct {
		Balance         decimal.Decimal `json:"balance"`
		MonthlyIncome   decimal.Decimal `json:"monthlyIncome"`
		MonthlyExpenses decimal.Decimal `json:"monthlyExpenses"`
		MonthlySavings  decimal.Decimal `json:"monthlySavings"`
		MonthlyChange   decimal.Decimal `json:"monthlyChange"`
		IncomeChange    decimal.Decimal `json:"incomeChange"`
		ExpensesChange  decimal.Decimal `json:"expensesChange"`
	}

	BudgetItem struct {
		Category string          `json:"category"` // canonical name
		Spent    decimal.Decimal `json:"spent"`
		Budget   decimal.Decimal `json:"budget"`
		Percent  int64           `json:"percent"`
	}

	Goal struct {
		Name    string          `json:"name"`
		Saved   decimal.Decimal `json:"saved"`
		Target  decimal.Decimal `json:"target"`
		Percent int64           `json:"percent"`
	}

	ChartDataPoint struct {
		Name     string          `json:"name"`
		Income   decimal.Decimal `json:"income"`
		Expenses decimal.Decimal `json:"expenses"`
	}

	ChartData struct {
		ThisMonth   []ChartDataPoint `json:"thisMonth"`
		Last3Months []ChartDataPoint `json:"last3Months"`
		ThisYear    []ChartDataPoint `json:"thisYear"`
	}

	CategoryRef struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	Categories struct {
		BudgetCategories  []CategoryRef     `json:"budgetCategories"`
		ExpenseCategories []CategoryRef     `json:"expenseCategories"`
		IncomeCategories  []CategoryRef     `json:"incomeCategories"`
		CategoryMappings  map[string]string `json:"categoryMappings"`
	}

	Insight struct {
		Type    InsightType `json:"type"`
		Title   string      `json:"title"`
		Message string      `json:"message"`
	}

	// InsightsState is the cached advisory text plus the time it was produced.
	InsightsState struct {
		Entries         []Insight
		LastRefreshedAt time.Time
	}

	// Snapshot is the aggregate root. Transactions are ordered newest first.
	Snapshot struct {
		Profile             Profile       `json:"profile"`
		Transactions        []Transaction `json:"transactions"`
		Budgets             []BudgetItem  `json:"budgets"`
		Goals               []Goal        `json:"goals"`
		Categories          Categories    `json:"categories"`
		ChartData           ChartData     `json:"chartData"`
		Insights            []Insight     `json:"insights"`
		InsightsRefreshedAt time.Time     `json:"insightsRefreshedAt"`
		Statements          Statements    `json:"statements"`
	}
)

// Chart periods as exposed to callers.
const (
	PeriodThisMonth   = "thisMonth"
	PeriodLast3Months = "last3Months"
	PeriodThisYear    = "thisYear"
)

var (
	ErrInvalidDate     = errors.New("invalid date label")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyPayee      = errors.New("empty payee")
	ErrEmptyCategory   = errors.New("empty category")
	ErrUnknownPeriod   = errors.New("unknown chart period")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

func (t Transaction) Validate() error {
	if _, err := ParseDateLabel(t.Date); err != nil {
		return err
	}
	if strings.TrimSpace(t.Payee) == "" {
		return ErrEmptyPayee
	}
	if len(t.Payee) > 200 {
		return errors.New("payee too long (max 200 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Amount.IsZero() {
		return ErrInvalidAmount
	}
	return nil
}

// IsIncome reports whether the transaction credits the account.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// Series returns the chart series for a period name.
func (c *ChartData) Series(period string) ([]ChartDataPoint, error) {
	switch period {
	case PeriodThisMonth:
		return c.ThisMonth, nil
	case PeriodLast3Months:
		return c.Last3Months, nil
	case PeriodThisYear:
		return c.ThisYear, nil
	default:
		return nil, ErrUnknownPeriod
	}
}

// InsightsState returns the cached insights slice of the snapshot.
func (s *Snapshot) InsightsState() InsightsState {
	return InsightsState{
		Entries:         append([]Insight(nil), s.Insights...),
		LastRefreshedAt: s.InsightsRefreshedAt,
	}
}

// Clone returns a deep copy so readers never alias the engine's instance.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Transactions = append([]Transaction(nil), s.Transactions...)
	out.Budgets = append([]BudgetItem(nil), s.Budgets...)
	out.Goals = append([]Goal(nil), s.Goals...)
	out.Insights = append([]Insight(nil), s.Insights...)
	out.Statements = s.Statements.Clone()
	out.ChartData = ChartData{
		ThisMonth:   append([]ChartDataPoint(nil), s.ChartData.ThisMonth...),
		Last3Months: append([]ChartDataPoint(nil), s.ChartData.Last3Months...),
		ThisYear:    append([]ChartDataPoint(nil), s.ChartData.ThisYear...),
	}
	out.Categories = Categories{
		BudgetCategories:  append([]CategoryRef(nil), s.Categories.BudgetCategories...),
		ExpenseCategories: append([]CategoryRef(nil), s.Categories.ExpenseCategories...),
		IncomeCategories:  append([]CategoryRef(nil), s.Categories.IncomeCategories...),
	}
	if s.Categories.CategoryMappings != nil {
		out.Categories.CategoryMappings = make(map[string]string, len(s.Categories.CategoryMappings))
		for k, v := range s.Categories.CategoryMappings {
			out.Categories.CategoryMappings[k] = v
		}
	}
	return &out
}
