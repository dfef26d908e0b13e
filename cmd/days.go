package cmd

import (
	"context"
	"flag"
	"time"

	"github.com/etnz/stockcard"
	"github.com/etnz/stockcard/renderer"
	"github.com/google/subcommands"
)

type daysCmd struct{}

func (*daysCmd) Name() string     { return "days" }
func (*daysCmd) Synopsis() string { return "list the days that can be displayed" }
func (*daysCmd) Usage() string {
	return `spc days

  Lists today and the most recent recorded days before it, with the label
  the card shows for them.
`
}

func (c *daysCmd) SetFlags(f *flag.FlagSet) {}

func (c *daysCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, _, _, store, closer, ok := setup(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	now := time.Now()
	days := store.Days(ctx, stockcard.DayOf(now))
	printMarkdown(renderer.RenderDays(renderer.NewDays(days, "", now)))
	return subcommands.ExitSuccess
}
