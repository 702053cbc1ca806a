package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"fintrack/internal/core"
)

type recordCmd struct {
	id       int64
	date     string
	payee    string
	category string
	amount   string
	custom   string
}

func (*recordCmd) Name() string { return "record" }
func (*recordCmd) Synopsis() string {
	return "record a transaction and update balances, budgets and goals"
}
func (*recordCmd) Usage() string {
	return `fintrackctl record -payee <payee> -category <category> -amount <amount> [-date "Apr 15"] [-id <id>]

  Records one transaction. Negative amounts are expenses, positive amounts
  are income. Amounts accept either '.' or ',' as decimal separator.
`
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Transaction id (defaults to the current time in milliseconds).")
	f.StringVar(&c.date, "date", "", "Date label such as \"Apr 15\" (defaults to today).")
	f.StringVar(&c.payee, "payee", "", "Who was paid or who paid.")
	f.StringVar(&c.category, "category", "", "Category name, e.g. Food or Vacation.")
	f.StringVar(&c.amount, "amount", "", "Signed amount, e.g. -78.52 or 1250.")
	f.StringVar(&c.custom, "custom", "", "Optional free-form category label.")
}

func (c *recordCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	now := time.Now()
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount %q: %v\n", c.amount, err)
		return subcommands.ExitUsageError
	}
	tx := core.Transaction{
		ID:             c.id,
		Date:           c.date,
		Payee:          c.payee,
		Category:       c.category,
		Amount:         amount,
		CustomCategory: c.custom,
	}
	if tx.ID == 0 {
		tx.ID = now.UnixMilli()
	}
	if tx.Date == "" {
		tx.Date = core.LabelFor(now)
	}
	if err := tx.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	s := openSession(ctx)
	defer s.Close()

	res, err := s.engine.RecordTransaction(ctx, tx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded %s %s (%s). Balance: %s\n",
		tx.Payee, core.FormatMoney(tx.Amount), tx.Date, core.FormatMoney(res.Snapshot.Profile.Balance))
	if res.MilestoneCrossed {
		fmt.Println("A savings goal crossed a 25% milestone.")
	}
	return subcommands.ExitSuccess
}
