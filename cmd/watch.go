package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/stockcard"
	"github.com/etnz/stockcard/scheduler"
	"github.com/google/subcommands"
)

type watchCmd struct {
	schedule string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "record snapshots on a schedule" }
func (*watchCmd) Usage() string {
	return `spc watch [-schedule <cron>]

  Records a snapshot right away, then on every tick of the cron schedule,
  until interrupted. The schedule uses the standard five fields
  ("*/15 14-21 * * MON-FRI") or descriptors ("@hourly", "@every 30m").
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", "", "Cron schedule ($SPC_SCHEDULE, default every 15 minutes).")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, log, card, store, closer, ok := setup(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	schedule := c.schedule
	if schedule == "" {
		schedule = s.Schedule
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := s.Resolver(log)
	job := scheduler.JobFunc{JobName: "record", Func: func() error {
		_, _, err := stockcard.Refresh(ctx, card, resolver, store, time.Now())
		return err
	}}

	sched := scheduler.New(log)
	if err := sched.AddJob(schedule, job); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing schedule %q: %v\n", schedule, err)
		return subcommands.ExitUsageError
	}
	if err := sched.RunNow(job); err != nil {
		log.Error().Err(err).Msg("Initial snapshot failed")
	}
	sched.Start()
	<-ctx.Done()
	sched.Stop()
	return subcommands.ExitSuccess
}
