// Command fetchio performs a single fetch from the command line.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
)

func main() {
	cli := &CLI{}
	cliCtx := kong.Parse(cli,
		kong.Name("fetchio"),
		kong.Description("Fetch a URL and print the response body."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger(os.Stderr, cli.Verbose, isatty.IsTerminal(os.Stderr.Fd()))

	err := cli.Run(ctx, os.Stdout, logger, isatty.IsTerminal(os.Stdout.Fd()))
	cliCtx.FatalIfErrorf(err)
}
