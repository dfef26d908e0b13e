package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/stockcard"
	"github.com/etnz/stockcard/renderer"
	"github.com/google/subcommands"
)

type showCmd struct {
	day  string
	bars bool
	html bool
	raw  bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the valued portfolios of a day" }
func (*showCmd) Usage() string {
	return `spc show [-day <today|YYYY-MM-DD>] [-bars] [-html | -raw]

  Values the card's portfolios against the live prices (today) or against a
  recorded snapshot, and displays the report.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "day", stockcard.Today, "Day to display: today, or a recorded date (see 'spc days').")
	f.BoolVar(&c.bars, "bars", false, "Display value bars instead of the table.")
	f.BoolVar(&c.html, "html", false, "Print an HTML fragment.")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown.")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, log, card, store, closer, ok := setup(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	now := time.Now()
	var live stockcard.PriceMap
	if c.day == "" || c.day == stockcard.Today {
		live = s.Resolver(log).Resolve(ctx, card.Tickers())
	}
	prices := stockcard.SelectPrices(c.day, live, store.Load(ctx))

	view := renderer.NewOverview(card.Title, renderer.DayLabel(c.day, now), card.Value(prices))
	md := renderer.RenderOverview(view, renderer.RenderOptions{Bars: c.bars})

	switch {
	case c.html:
		html, err := renderer.HTML(md)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Print(html)
	case c.raw:
		fmt.Print(md)
	default:
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}
