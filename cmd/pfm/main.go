package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"finance_tracker/internal/cli"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	env := cli.NewEnv(os.Stdout, os.Stderr)
	env.SetFlags(flag.CommandLine)
	cli.Register(commander, env)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
