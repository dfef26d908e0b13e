package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/stockcard/api"
	"github.com/etnz/stockcard/scheduler"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr     string
	schedule string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the card over HTTP" }
func (*serveCmd) Usage() string {
	return `spc serve [-addr <host:port>] [-schedule <cron>]

  Serves the valued card as a JSON API for the dashboard host:

    GET  /api/portfolios?day=   valued portfolios of a day
    GET  /api/report?day=       the same as an HTML (or markdown) report
    GET  /api/days              selectable days
    GET  /api/history/{date}    a recorded snapshot
    POST /api/snapshot          set and record live prices
    POST /api/refresh           resolve and record live prices

  With -schedule, live prices are also refreshed on that cron schedule.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address ($SPC_HTTP_ADDR, default :8080).")
	f.StringVar(&c.schedule, "schedule", "", "Cron schedule of live price refreshes, none by default.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, log, card, store, closer, ok := setup(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	addr := c.addr
	if addr == "" {
		addr = s.HTTPAddr
	}
	srv := api.New(api.Config{
		Addr:     addr,
		Log:      log,
		Card:     card,
		Store:    store,
		Resolver: s.Resolver(log),
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.schedule != "" {
		sched := scheduler.New(log)
		err := sched.AddJob(c.schedule, scheduler.JobFunc{JobName: "refresh", Func: func() error {
			_, _, err := srv.Refresh(ctx)
			return err
		}})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing schedule %q: %v\n", c.schedule, err)
			return subcommands.ExitUsageError
		}
		sched.Start()
		defer sched.Stop()
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Error serving: %v\n", err)
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
