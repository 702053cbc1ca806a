package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"fintrack/internal/exchange"
)

type exportCmd struct {
	out string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the whole snapshot as JSON" }
func (*exportCmd) Usage() string {
	return `fintrackctl export [-o <file>]

  Writes the snapshot document to stdout, or to the given file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "Output file (defaults to stdout).")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s := openSession(ctx)
	defer s.Close()

	doc, err := s.engine.Export()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.out == "" {
		fmt.Println(string(doc))
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.out, doc, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", c.out, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the snapshot with a JSON document" }
func (*importCmd) Usage() string {
	return `fintrackctl import <file>

  Replaces the stored snapshot with the document in <file>. The document
  must contain profile, transactions, budgets and goals.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "import requires exactly one file argument")
		return subcommands.ExitUsageError
	}
	doc, err := os.ReadFile(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	s := openSession(ctx)
	defer s.Close()

	if err := s.engine.Import(ctx, doc); err != nil {
		var verr *exchange.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "%v\n", verr)
			return subcommands.ExitUsageError
		}
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %s\n", f.Arg(0))
	return subcommands.ExitSuccess
}

type resetCmd struct {
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "restore the default sample snapshot" }
func (*resetCmd) Usage() string {
	return `fintrackctl reset -yes

  Discards every recorded transaction and restores the default data.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the reset.")
}

func (c *resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "refusing to reset without -yes")
		return subcommands.ExitUsageError
	}
	s := openSession(ctx)
	defer s.Close()

	if err := s.engine.Reset(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println("Snapshot reset to defaults")
	return subcommands.ExitSuccess
}
