package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{ID: 1, Date: "Apr 15", Payee: "Grocery Store", Category: "Food", Amount: decimal.RequireFromString("-78.52")}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"bad date", func(tx *Transaction) { tx.Date = "15/04" }, ErrInvalidDate},
		{"empty payee", func(tx *Transaction) { tx.Payee = "  " }, ErrEmptyPayee},
		{"empty category", func(tx *Transaction) { tx.Category = "" }, ErrEmptyCategory},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{"long payee", func(tx *Transaction) { tx.Payee = strings.Repeat("x", 201) }, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := good
			tc.mutate(&tx)
			err := tx.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestChartSeries(t *testing.T) {
	snap := DefaultSnapshot()
	for period, n := range map[string]int{PeriodThisMonth: 4, PeriodLast3Months: 3, PeriodThisYear: 4} {
		s, err := snap.ChartData.Series(period)
		if err != nil || len(s) != n {
			t.Fatalf("%s: len=%d err=%v", period, len(s), err)
		}
	}
	if _, err := snap.ChartData.Series("lastWeek"); !errors.Is(err, ErrUnknownPeriod) {
		t.Fatalf("expected ErrUnknownPeriod, got %v", err)
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	orig := DefaultSnapshot()
	orig.Statements = DefaultStatements(time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC))
	c := orig.Clone()

	c.Transactions[0].Payee = "changed"
	c.Budgets[0].Spent = decimal.NewFromInt(1)
	c.Goals[0].Saved = decimal.NewFromInt(1)
	c.ChartData.ThisMonth[0].Income = decimal.NewFromInt(1)
	c.Categories.CategoryMappings["Food"] = "Other"
	c.Insights[0].Title = "changed"
	c.Statements.BalanceSheet.Assets[0].Name = "changed"
	c.Statements.CashFlow.Items[0].Amount = decimal.NewFromInt(1)

	if orig.Transactions[0].Payee != "Grocery Store" {
		t.Errorf("transactions aliased")
	}
	if !orig.Budgets[0].Spent.Equal(decimal.NewFromInt(450)) {
		t.Errorf("budgets aliased")
	}
	if !orig.Goals[0].Saved.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("goals aliased")
	}
	if !orig.ChartData.ThisMonth[0].Income.Equal(decimal.NewFromInt(1250)) {
		t.Errorf("chart aliased")
	}
	if orig.Categories.CategoryMappings["Food"] != "Food & Dining" {
		t.Errorf("mappings aliased")
	}
	if orig.Insights[0].Title != "Spending Pattern" {
		t.Errorf("insights aliased")
	}
	if orig.Statements.BalanceSheet.Assets[0].Name != "Cash" || !orig.Statements.CashFlow.Items[0].Amount.Equal(decimal.NewFromInt(4500)) {
		t.Errorf("statements aliased")
	}
}

func TestDefaultStatementsBalance(t *testing.T) {
	st := DefaultStatements(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC))
	if st.IncomeStatement.StartDate != "2024-02-01" || st.IncomeStatement.EndDate != "2024-02-29" {
		t.Fatalf("period = %s..%s", st.IncomeStatement.StartDate, st.IncomeStatement.EndDate)
	}
	end := st.CashFlow.StartingBalance
	for _, it := range st.CashFlow.Items {
		end = end.Add(it.Amount)
	}
	if !end.Equal(st.CashFlow.EndingBalance) {
		t.Fatalf("ending balance %s, items sum to %s", st.CashFlow.EndingBalance, end)
	}
	if st.IsZero() || !(&Statements{}).IsZero() {
		t.Fatalf("IsZero misreports")
	}
}

func TestDefaultSnapshotInvariants(t *testing.T) {
	snap := DefaultSnapshot()
	p := snap.Profile
	if !p.MonthlySavings.Equal(p.MonthlyIncome.Sub(p.MonthlyExpenses)) {
		t.Fatalf("savings %s != income - expenses", p.MonthlySavings)
	}
	for _, b := range snap.Budgets {
		if got := Percent(b.Spent, b.Budget); got != b.Percent {
			t.Errorf("budget %s percent %d, computed %d", b.Category, b.Percent, got)
		}
	}
	for _, g := range snap.Goals {
		if got := Percent(g.Saved, g.Target); got != g.Percent {
			t.Errorf("goal %s percent %d, computed %d", g.Name, g.Percent, got)
		}
	}
	if len(snap.Insights) != 3 {
		t.Fatalf("expected 3 insights, got %d", len(snap.Insights))
	}
}

func TestSnapshotJSONNumbers(t *testing.T) {
	b, err := json.Marshal(DefaultSnapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"balance":16420.65`) {
		t.Fatalf("amounts should encode as numbers: %s", b[:120])
	}
	for _, key := range []string{`"profile"`, `"transactions"`, `"budgets"`, `"goals"`, `"categories"`, `"chartData"`, `"insights"`, `"insightsRefreshedAt"`} {
		if !strings.Contains(string(b), key) {
			t.Errorf("missing key %s", key)
		}
	}
}

func TestSummarize(t *testing.T) {
	snap := DefaultSnapshot()
	s := snap.Summarize(3)
	if len(s.RecentTransactions) != 3 || s.RecentTransactions[0].ID != 1 {
		t.Fatalf("unexpected recent transactions %+v", s.RecentTransactions)
	}
	s.Budgets[0].Category = "changed"
	if snap.Budgets[0].Category != "Food & Dining" {
		t.Fatalf("summary aliases budgets")
	}
	if all := snap.Summarize(10); len(all.RecentTransactions) != 5 {
		t.Fatalf("expected all 5 transactions, got %d", len(all.RecentTransactions))
	}
}
