package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/stockcard"
	"github.com/etnz/stockcard/quote"
	"github.com/google/subcommands"
)

type fetchCmd struct {
	concurrency int
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch live quotes and print them as JSON" }
func (*fetchCmd) Usage() string {
	return `spc fetch TICKER...

  Resolves the live quote of every ticker, from the NYSE quote API first and
  the Schwab research page as a fallback (then eodhd.com when
  $EODHD_API_KEY is set), and prints them as

    {"data": {"AAPL": {"price": 201.5, "change": -1.2}}}

  Tickers that cannot be resolved are left out.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.concurrency, "n", 10, "Maximum number of quotes fetched at the same time.")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: spc fetch TICKER1 TICKER2 ...")
		return subcommands.ExitUsageError
	}
	s := LoadSettings()
	log := s.Logger()
	resolver := s.Resolver(log, quote.WithConcurrency(c.concurrency))

	prices := resolver.Resolve(ctx, f.Args())
	if err := writeQuotes(os.Stdout, prices); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing quotes: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// writeQuotes prints prices in the dashboard entity's attribute format.
func writeQuotes(w io.Writer, prices stockcard.PriceMap) error {
	if prices == nil {
		prices = stockcard.PriceMap{}
	}
	return json.NewEncoder(w).Encode(struct {
		Data stockcard.PriceMap `json:"data"`
	}{prices})
}
