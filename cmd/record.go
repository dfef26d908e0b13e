package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/stockcard"
	"github.com/google/subcommands"
)

type recordCmd struct{}

func (*recordCmd) Name() string     { return "record" }
func (*recordCmd) Synopsis() string { return "record today's snapshot of the card's live prices" }
func (*recordCmd) Usage() string {
	return `spc record

  Resolves the live prices of every ticker of the card definition and
  records them as today's snapshot, replacing any earlier snapshot of today.
  Only the 14 most recent days are kept.
`
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {}

func (c *recordCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, log, card, store, closer, ok := setup(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	prices, h, err := stockcard.Refresh(ctx, card, s.Resolver(log), store, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(prices) == 0 {
		fmt.Fprintln(os.Stderr, "No quote could be resolved, nothing recorded.")
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %d of %d tickers, %d days in history.\n", len(prices), len(card.Tickers()), h.Len())
	return subcommands.ExitSuccess
}
