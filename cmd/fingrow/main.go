// Command fingrow is a local group expense ledger: it splits shared bills
// across group members, tracks who owes whom, and proposes the minimal set
// of transfers to settle up. All data lives in a local SQLite file; nothing
// talks to the network.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/junman99/fingrow-sub000/internal/cli"
	"github.com/junman99/fingrow-sub000/internal/config"
	"github.com/junman99/fingrow-sub000/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cli.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
