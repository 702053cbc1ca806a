package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"fintrack/internal/cli"
	"fintrack/internal/insights"
	"fintrack/internal/render"
)

type insightsCmd struct {
	refresh bool
	style   string
	width   int
}

func (*insightsCmd) Name() string     { return "insights" }
func (*insightsCmd) Synopsis() string { return "display spending, saving and upcoming-bill insights" }
func (*insightsCmd) Usage() string {
	return `fintrackctl insights [-refresh]

  Prints the cached insights, regenerating them when they are older than
  INSIGHTS_TTL or when -refresh is given.
`
}

func (c *insightsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Regenerate even if the cached insights are fresh.")
	f.StringVar(&c.style, "style", "auto", "Glamour style (auto, dark, light, notty).")
	f.IntVar(&c.width, "width", 100, "Word wrap width.")
}

func (c *insightsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s := openSession(ctx)
	defer s.Close()

	cache := insights.NewCache(s.engine, cli.InitGenerator(ctx, s.logger, s.cfg),
		insights.WithTTL(s.cfg.InsightsTTL),
		insights.WithLogger(s.logger))

	entries, err := cache.Get(ctx, c.refresh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Showing previous insights: %v\n", err)
	}

	md, err := render.Insights(entries)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(md, c.style, c.width)
	return subcommands.ExitSuccess
}
