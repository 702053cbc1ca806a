package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/statements"
)

func TestSnapshotMarkdown(t *testing.T) {
	snap := core.DefaultSnapshot()
	snap.Transactions[0].CustomCategory = "Weekly shop"

	md, err := Snapshot(snap, 2)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	for _, want := range []string{
		"# Financial overview",
		"$16,420.65",
		"**Food & Dining**: $450.00 of $600.00 (75%)",
		"**Vacation**: $2,500.00 of $5,000.00 (50%)",
		"| Apr 15 | Grocery Store | Food (Weekly shop) |",
		"| Apr 14 | Direct Deposit | Income | $1,250.00 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Coffee Shop") {
		t.Errorf("markdown lists more than 2 transactions")
	}
}

func TestSnapshotMarkdownEmpty(t *testing.T) {
	md, err := Snapshot(&core.Snapshot{}, DefaultRecent)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	for _, want := range []string{"_No budgets._", "_No goals._", "_No transactions._"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if _, err := Snapshot(nil, 1); !errors.Is(err, core.ErrInvalidSnapshot) {
		t.Fatalf("nil snapshot error = %v", err)
	}
}

func TestInsightsMarkdown(t *testing.T) {
	md, err := Insights(core.DefaultSnapshot().Insights)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if !strings.Contains(md, "### Spending Pattern") || !strings.Contains(md, "internet bill ($65)") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
}

func TestChartMarkdown(t *testing.T) {
	md, err := Chart(core.PeriodLast3Months, core.DefaultSnapshot().ChartData.Last3Months)
	if err != nil {
		t.Fatalf("Chart: %v", err)
	}
	if !strings.Contains(md, "# Last 3 months") || !strings.Contains(md, "| Mar | $4,100.00 | $3,200.00 |") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
	if _, err := Chart("decade", nil); !errors.Is(err, core.ErrUnknownPeriod) {
		t.Fatalf("unknown period error = %v", err)
	}
}

func TestTerminalPlain(t *testing.T) {
	out, err := Terminal("# Insights\n\nSave more on **dining**.\n", "notty", 80)
	if err != nil {
		t.Fatalf("Terminal: %v", err)
	}
	if !strings.Contains(out, "Insights") || !strings.Contains(out, "dining") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStatementsMarkdown(t *testing.T) {
	now := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)
	svc := statements.NewService(staticBooks{core.DefaultStatements(now)})
	is, _ := svc.IncomeStatement(context.Background(), "", "")
	cf, _ := svc.CashFlow(context.Background(), "", "")

	md, err := Statements(svc.BalanceSheet(), is, cf)
	if err != nil {
		t.Fatalf("Statements: %v", err)
	}
	for _, want := range []string{
		"# Balance sheet as of 2025-04-15",
		"**Net worth**: $46,800.00",
		"# Income statement 2025-04-01 to 2025-04-30",
		"| Dining Out | Food | $350.00 |",
		"**Net income**: $2,525.00",
		"- Investing: -$3,200.00",
		"**ending balance** $6,180.00",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

type staticBooks struct{ st core.Statements }

func (b staticBooks) Statements() core.Statements { return b.st }

func (b staticBooks) UpdateStatements(_ context.Context, _ func(*core.Statements) error) (core.Statements, error) {
	return b.st, errors.New("read only")
}
