package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"fintrack/internal/render"
)

type showCmd struct {
	period string
	recent int
	style  string
	width  int
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the financial overview or a chart series" }
func (*showCmd) Usage() string {
	return `fintrackctl show [-chart thisMonth|last3Months|thisYear] [-n <recent>]

  Without -chart, prints the profile, recent transactions, budgets and
  goals. With -chart, prints the income and expenses of every bucket.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "chart", "", "Chart period to display instead of the overview.")
	f.IntVar(&c.recent, "n", render.DefaultRecent, "Number of recent transactions to list.")
	f.StringVar(&c.style, "style", "auto", "Glamour style (auto, dark, light, notty).")
	f.IntVar(&c.width, "width", 100, "Word wrap width.")
}

func (c *showCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s := openSession(ctx)
	defer s.Close()

	var (
		md  string
		err error
	)
	if c.period == "" {
		md, err = render.Snapshot(s.engine.Snapshot(), c.recent)
	} else {
		points, cerr := s.engine.Chart(c.period)
		if cerr != nil {
			fmt.Fprintln(os.Stderr, cerr)
			return subcommands.ExitUsageError
		}
		md, err = render.Chart(c.period, points)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(md, c.style, c.width)
	return subcommands.ExitSuccess
}
