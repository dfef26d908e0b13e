// Command spc keeps the price history of a stock portfolio card and serves
// its valued portfolios.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/stockcard/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion().Complete("spc")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	global := map[string]complete.Predictor{
		"config":     predict.Files("*.yaml"),
		"store":      predict.Set{"memory", "file", "sqlite", "redis", "s3"},
		"store-path": predict.Files("*"),
		"codec":      predict.Set{"json", "msgpack"},
		"log-level":  predict.Set{"debug", "info", "warn", "error"},
		"cache":      predict.Something,
	}
	return &complete.Command{
		Flags: global,
		Sub: map[string]*complete.Command{
			"fetch":  {Flags: map[string]complete.Predictor{"n": predict.Something}, Args: predict.Something},
			"record": {},
			"watch":  {Flags: map[string]complete.Predictor{"schedule": predict.Set{"@hourly", "@every 30m", "*/15 14-21 * * MON-FRI"}}},
			"show": {Flags: map[string]complete.Predictor{
				"day":  predict.Something,
				"bars": predict.Nothing,
				"html": predict.Nothing,
				"raw":  predict.Nothing,
			}},
			"days":  {},
			"serve": {Flags: map[string]complete.Predictor{"addr": predict.Something, "schedule": predict.Something}},
			"topic": {Args: predict.Set{"card", "history", "quotes", "api", "*"}},
			"help":  {},
		},
	}
}
