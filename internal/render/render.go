// Package render turns snapshots and insights into Markdown, and Markdown
// into styled terminal output.
package render

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"

	"fintrack/internal/core"
	"fintrack/internal/statements"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"money": core.FormatMoney,
	"category": func(tx core.Transaction) string {
		if tx.CustomCategory != "" {
			return tx.Category + " (" + tx.CustomCategory + ")"
		}
		return tx.Category
	},
}

var parsed = template.Must(template.New("render").Funcs(funcs).ParseFS(templates, "templates/*.md"))

// DefaultRecent is how many ledger entries the overview lists.
const DefaultRecent = 5

// Snapshot renders the profile, budgets, goals and the most recent ledger
// entries.
func Snapshot(snap *core.Snapshot, recent int) (string, error) {
	if snap == nil {
		return "", core.ErrInvalidSnapshot
	}
	txs := snap.Transactions
	if recent >= 0 && len(txs) > recent {
		txs = txs[:recent]
	}
	return execute("snapshot.md", struct {
		*core.Snapshot
		Recent []core.Transaction
	}{snap, txs})
}

// Insights renders advisory entries as Markdown sections.
func Insights(entries []core.Insight) (string, error) {
	return execute("insights.md", entries)
}

// Chart renders one chart series as a table.
func Chart(period string, points []core.ChartDataPoint) (string, error) {
	titles := map[string]string{
		core.PeriodThisMonth:   "This month",
		core.PeriodLast3Months: "Last 3 months",
		core.PeriodThisYear:    "This year",
	}
	title, ok := titles[period]
	if !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownPeriod, period)
	}
	return execute("chart.md", struct {
		Title  string
		Points []core.ChartDataPoint
	}{title, points})
}

// Statements renders the balance sheet, income statement and cash flow.
func Statements(bs statements.BalanceSheetReport, is statements.IncomeStatementReport, cf statements.CashFlowReport) (string, error) {
	return execute("statements.md", struct {
		BalanceSheet statements.BalanceSheetReport
		Income       statements.IncomeStatementReport
		CashFlow     statements.CashFlowReport
	}{bs, is, cf})
}

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := parsed.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}

// Terminal styles Markdown for a terminal. An empty style picks one from
// the terminal background; "notty" yields plain text.
func Terminal(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
