package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"fintrack/internal/core"
	"fintrack/internal/render"
	"fintrack/internal/statements"
)

type statementsCmd struct {
	start        string
	end          string
	asOf         string
	startBalance string
	style        string
	width        int
}

func (*statementsCmd) Name() string { return "statements" }
func (*statementsCmd) Synopsis() string {
	return "display the balance sheet, income statement and cash flow"
}
func (*statementsCmd) Usage() string {
	return `fintrackctl statements [-start YYYY-MM-DD -end YYYY-MM-DD] [-as-of YYYY-MM-DD] [-starting-balance <amount>]

  Prints all three statements. -start and -end move the income statement
  and cash flow period, -as-of dates the balance sheet and
  -starting-balance resets the cash flow opening balance. Changes are saved.
`
}

func (c *statementsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "First day of the income and cash flow period.")
	f.StringVar(&c.end, "end", "", "Last day of the income and cash flow period.")
	f.StringVar(&c.asOf, "as-of", "", "Balance sheet date.")
	f.StringVar(&c.startBalance, "starting-balance", "", "Cash flow starting balance.")
	f.StringVar(&c.style, "style", "auto", "Glamour style (auto, dark, light, notty).")
	f.IntVar(&c.width, "width", 100, "Word wrap width.")
}

func (c *statementsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s := openSession(ctx)
	defer s.Close()

	books := statements.NewService(s.engine, statements.WithLogger(s.logger))
	if c.asOf != "" {
		if _, err := books.SetBalanceSheetDate(ctx, c.asOf); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}
	if c.startBalance != "" {
		amount, err := core.ParseAmount(c.startBalance)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		if _, err := books.SetStartingBalance(ctx, amount); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	is, err := books.IncomeStatement(ctx, c.start, c.end)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	cf, err := books.CashFlow(ctx, c.start, c.end)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	md, err := render.Statements(books.BalanceSheet(), is, cf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(md, c.style, c.width)
	return subcommands.ExitSuccess
}
